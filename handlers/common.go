package handlers

import (
	"fmt"
	"log"
	"net/http"

	"linkedin-backend/config"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var cfg = config.Load()

// SetConfig overrides the package configuration; main calls it with the
// loaded config so handlers and the server agree on defaults.
func SetConfig(c *config.Config) {
	if c != nil {
		cfg = c
	}
}

func notFound(c *gin.Context, resource, id string) {
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s with id %s not found", resource, id)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func storeError(c *gin.Context, op string, err error) {
	log.Printf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}

// pathID parses a path parameter into an object id. An id that does not
// parse cannot name any stored document, so it is reported the same way as a
// missing one.
func pathID(c *gin.Context, param, resource string) (primitive.ObjectID, bool) {
	raw := c.Param(param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		notFound(c, resource, raw)
		return primitive.NilObjectID, false
	}
	return id, true
}
