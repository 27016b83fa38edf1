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

func AddComment(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	comment, err := models.NewComment(postID, body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		notFound(c, "post", c.Param("postId"))
		return
	}
	if err != nil {
		storeError(c, "AddComment push", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func GetComments(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		notFound(c, "post", c.Param("postId"))
		return
	}
	if err != nil {
		storeError(c, "GetComments find", err)
		return
	}

	comments := post.Comments
	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, comments)
}

// UpdateComment merges the provided fields over one comment in place. The
// write goes through a positional conditional update so two concurrent
// updates to different comments on the same post cannot overwrite each
// other's work.
func UpdateComment(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId", "comment")
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	set := bson.M{}
	for k, v := range body {
		switch k {
		case "_id", "post", "createdAt", "updatedAt":
			continue
		case "user":
			s, isString := v.(string)
			if !isString {
				badRequest(c, "user must be a hex object id")
				return
			}
			userID, err := primitive.ObjectIDFromHex(s)
			if err != nil {
				badRequest(c, "invalid user id "+s)
				return
			}
			set["comments.$.user"] = userID
		default:
			set["comments.$."+k] = v
		}
	}
	set["comments.$.updatedAt"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err := database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		// The conditional update cannot tell a missing post from a missing
		// comment, so one extra lookup decides which id to report.
		count, countErr := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
		if countErr != nil {
			storeError(c, "UpdateComment count", countErr)
			return
		}
		if count == 0 {
			notFound(c, "post", c.Param("postId"))
		} else {
			notFound(c, "comment", c.Param("commentId"))
		}
		return
	}
	if err != nil {
		storeError(c, "UpdateComment update", err)
		return
	}

	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			c.JSON(http.StatusOK, post.Comments[i])
			return
		}
	}
	// Matched the filter but the comment is gone from the updated document:
	// a concurrent removal won. Report the comment as missing.
	notFound(c, "comment", c.Param("commentId"))
}

// RemoveComment pulls the comment out of the array at the store level.
// Removing an id that is not there is a no-op success: the pull matches the
// post and simply changes nothing.
func RemoveComment(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId", "comment")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err := database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		notFound(c, "post", c.Param("postId"))
		return
	}
	if err != nil {
		storeError(c, "RemoveComment pull", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": "deleted", "updatedPost": post})
}
