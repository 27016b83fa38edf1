package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"linkedin-backend/database"
	"linkedin-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newRouter points the handlers at the mock collection and builds the real
// route table, so tests exercise the same paths production traffic takes.
func newRouter(mt *mtest.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	database.Posts = mt.Coll
	database.Users = mt.Coll
	return routes.SetupRouter()
}

func perform(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// docOf round-trips a model through bson so it can be queued as a mock
// server response.
func docOf(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

// countResponse is what CountDocuments' aggregate reads.
func countResponse(mt *mtest.T, n int32) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func emptyCursor(mt *mtest.T) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch)
}

func findAndModifyValue(doc bson.D) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func findAndModifyNoMatch() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
}

func assertErrorContains(t *testing.T, rr *httptest.ResponseRecorder, status int, substr string) {
	t.Helper()
	require.Equal(t, status, rr.Code)
	body := decodeBody(t, rr)
	require.Contains(t, body["error"], substr)
}
