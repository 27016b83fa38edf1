package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPost(t *testing.T) {
	owner := primitive.NewObjectID()

	post, err := NewPost(map[string]interface{}{
		"text":  "hello",
		"user":  owner.Hex(),
		"image": "https://img.example.com/x.png",
	})
	require.NoError(t, err)

	assert.False(t, post.ID.IsZero())
	assert.Equal(t, owner, post.UserID)
	assert.Equal(t, "https://img.example.com/x.png", post.Image)
	assert.Equal(t, "hello", post.Fields["text"])
	assert.Equal(t, []primitive.ObjectID{}, post.Likes)
	assert.Equal(t, []Comment{}, post.Comments)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestNewPostStripsServerOwnedKeys(t *testing.T) {
	post, err := NewPost(map[string]interface{}{
		"text":      "hello",
		"_id":       "forged",
		"likes":     []string{"a"},
		"comments":  []string{"b"},
		"createdAt": "yesterday",
	})
	require.NoError(t, err)

	assert.NotContains(t, post.Fields, "_id")
	assert.NotContains(t, post.Fields, "likes")
	assert.NotContains(t, post.Fields, "comments")
	assert.NotContains(t, post.Fields, "createdAt")
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
}

func TestNewPostRejectsBadUserRef(t *testing.T) {
	_, err := NewPost(map[string]interface{}{"user": "nope"})
	assert.Error(t, err)

	_, err = NewPost(map[string]interface{}{"user": 42})
	assert.Error(t, err)
}

func TestNewComment(t *testing.T) {
	postID := primitive.NewObjectID()
	author := primitive.NewObjectID()

	comment, err := NewComment(postID, map[string]interface{}{
		"text": "nice",
		"user": author.Hex(),
	})
	require.NoError(t, err)

	assert.False(t, comment.ID.IsZero())
	assert.Equal(t, postID, comment.PostID)
	assert.Equal(t, author, comment.UserID)
	assert.Equal(t, "nice", comment.Fields["text"])
}

func TestPostJSONMergesFreeFormFields(t *testing.T) {
	owner := primitive.NewObjectID()
	post, err := NewPost(map[string]interface{}{"text": "hello", "user": owner.Hex()})
	require.NoError(t, err)

	payload, err := json.Marshal(post)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))

	assert.Equal(t, post.ID.Hex(), out["_id"])
	assert.Equal(t, "hello", out["text"])
	assert.Equal(t, owner.Hex(), out["user"])
	assert.Equal(t, []interface{}{}, out["likes"])
	assert.Equal(t, []interface{}{}, out["comments"])
}

func TestPostJSONPrefersPopulatedUser(t *testing.T) {
	owner := primitive.NewObjectID()
	post, err := NewPost(map[string]interface{}{"text": "hello", "user": owner.Hex()})
	require.NoError(t, err)
	post.User = &UserSummary{ID: owner, Name: "Ada", Surname: "Lovelace"}

	payload, err := json.Marshal(post)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))

	user, ok := out["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, "Lovelace", user["surname"])
}

func TestCommentJSONCarriesBackReference(t *testing.T) {
	postID := primitive.NewObjectID()
	comment, err := NewComment(postID, map[string]interface{}{"text": "nice"})
	require.NoError(t, err)

	payload, err := json.Marshal(comment)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))

	assert.Equal(t, comment.ID.Hex(), out["_id"])
	assert.Equal(t, postID.Hex(), out["post"])
	assert.Equal(t, "nice", out["text"])
}

// The document round-trips through bson with the free-form fields at the top
// level, not nested under a subdocument.
func TestPostBSONRoundTrip(t *testing.T) {
	owner := primitive.NewObjectID()
	post, err := NewPost(map[string]interface{}{"text": "hello", "user": owner.Hex()})
	require.NoError(t, err)

	raw, err := bson.Marshal(post)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "hello", doc["text"])
	assert.Equal(t, owner, doc["user"])
	assert.NotContains(t, doc, "fields")

	var decoded Post
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, post.ID, decoded.ID)
	assert.Equal(t, "hello", decoded.Fields["text"])
	assert.Equal(t, owner, decoded.UserID)
}
