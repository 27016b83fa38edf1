package handlers

import (
	"context"
	"net/http"
	"time"

	"linkedin-backend/database"
	"linkedin-backend/models"
	"linkedin-backend/query"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fields that only the server may write on a post document.
var protectedPostFields = map[string]bool{
	"_id":       true,
	"likes":     true,
	"comments":  true,
	"createdAt": true,
	"updatedAt": true,
}

func CreatePost(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := models.NewPost(body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		storeError(c, "CreatePost insert", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"_id": post.ID.Hex()})
}

func GetPosts(c *gin.Context) {
	q := query.Parse(c.Request.URL.Query(), cfg.PostsDefaultLimit)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Posts.Find(ctx, q.Criteria, q.FindOptions())
	if err != nil {
		storeError(c, "GetPosts find", err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		storeError(c, "GetPosts decode", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	// Independent count over the same criteria, no paging, for the links.
	total, err := database.Posts.CountDocuments(ctx, q.Criteria)
	if err != nil {
		storeError(c, "GetPosts count", err)
		return
	}

	if err := populatePosts(ctx, posts); err != nil {
		storeError(c, "GetPosts populate", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links":         q.Links(cfg.PaginationPosts, total),
		"total":         total,
		"numberOfPages": q.NumberOfPages(total),
		"posts":         posts,
	})
}

func GetPost(c *gin.Context) {
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
		storeError(c, "GetPost find", err)
		return
	}

	posts := []models.Post{post}
	if err := populatePosts(ctx, posts); err != nil {
		storeError(c, "GetPost populate", err)
		return
	}

	c.JSON(http.StatusOK, posts[0])
}

func UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
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
		if protectedPostFields[k] {
			continue
		}
		if k == "user" {
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
			set["user"] = userID
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err := database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		notFound(c, "post", c.Param("postId"))
		return
	}
	if err != nil {
		storeError(c, "UpdatePost update", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		storeError(c, "DeletePost delete", err)
		return
	}
	if result.DeletedCount == 0 {
		notFound(c, "post", c.Param("postId"))
		return
	}

	c.Status(http.StatusNoContent)
}

func UploadPostImage(c *gin.Context) {
	postID, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("post")
	if err != nil {
		badRequest(c, "upload an image")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		storeError(c, "UploadPostImage count", err)
		return
	}
	if count == 0 {
		notFound(c, "post", c.Param("postId"))
		return
	}

	imageURL, err := uploadImage(ctx, file, "linkedin/postImage")
	if err != nil {
		storeError(c, "UploadPostImage upload", err)
		return
	}

	_, err = database.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		storeError(c, "UploadPostImage update", err)
		return
	}

	c.String(http.StatusOK, "uploaded")
}

// populatePosts resolves the weak user references on the posts and their
// comments to summary attributes with one batched lookup.
func populatePosts(ctx context.Context, posts []models.Post) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !id.IsZero() && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for i := range posts {
		add(posts[i].UserID)
		for j := range posts[i].Comments {
			add(posts[i].Comments[j].UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	opts := options.Find().SetProjection(bson.D{
		{Key: "name", Value: 1},
		{Key: "surname", Value: 1},
		{Key: "image", Value: 1},
	})
	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var summaries []models.UserSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.UserSummary, len(summaries))
	for i := range summaries {
		byID[summaries[i].ID] = &summaries[i]
	}

	for i := range posts {
		posts[i].User = byID[posts[i].UserID]
		for j := range posts[i].Comments {
			posts[i].Comments[j].User = byID[posts[i].Comments[j].UserID]
		}
	}
	return nil
}
