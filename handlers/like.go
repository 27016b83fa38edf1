package handlers

import (
	"context"
	"net/http"
	"time"

	"linkedin-backend/database"
	"linkedin-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ToggleLikeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ToggleLike flips the actor's membership in the post's likes set. The flip
// itself is a single pipeline update, so concurrent toggles by the same
// actor serialize at the store instead of racing between a read and a write.
func ToggleLike(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		notFound(c, "user", req.UserID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		storeError(c, "ToggleLike post count", err)
		return
	}
	if count == 0 {
		notFound(c, "post", c.Param("postId"))
		return
	}

	actors, err := database.Users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		storeError(c, "ToggleLike user count", err)
		return
	}
	if actors == 0 {
		notFound(c, "user", req.UserID)
		return
	}

	toggle := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{userID, "$likes"}}},
				bson.D{{Key: "$setDifference", Value: bson.A{"$likes", bson.A{userID}}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{"$likes", bson.A{userID}}}},
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		toggle,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		// Deleted between the existence check and the toggle.
		notFound(c, "post", c.Param("postId"))
		return
	}
	if err != nil {
		storeError(c, "ToggleLike update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":          post,
		"numberOfLikes": len(post.Likes),
	})
}
