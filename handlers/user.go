package handlers

import (
	"context"
	"net/http"
	"time"

	"linkedin-backend/database"
	"linkedin-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UpdateUserRequest struct {
	Name        *string              `json:"name"`
	Surname     *string              `json:"surname"`
	Email       *string              `json:"email"`
	Bio         *string              `json:"bio"`
	Title       *string              `json:"title"`
	Area        *string              `json:"area"`
	Image       *string              `json:"image"`
	Experiences *[]models.Experience `json:"experiences"`
}

func CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		badRequest(c, err.Error())
		return
	}
	user.PrepareInsert()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		storeError(c, "CreateUser insert", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"_id": user.ID.Hex()})
}

func GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{})
	if err != nil {
		storeError(c, "GetUsers find", err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		storeError(c, "GetUsers decode", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		notFound(c, "user", c.Param("userId"))
		return
	}
	if err != nil {
		storeError(c, "GetUser find", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Surname != nil {
		set["surname"] = *req.Surname
	}
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if !models.ValidEmail(email) {
			badRequest(c, "invalid email address")
			return
		}
		set["email"] = email
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Area != nil {
		set["area"] = *req.Area
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.Experiences != nil {
		set["experiences"] = models.PrepareExperiences(*req.Experiences)
	}
	set["updatedAt"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		notFound(c, "user", c.Param("userId"))
		return
	}
	if err != nil {
		storeError(c, "UpdateUser update", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		storeError(c, "DeleteUser delete", err)
		return
	}
	if result.DeletedCount == 0 {
		notFound(c, "user", c.Param("userId"))
		return
	}

	c.Status(http.StatusNoContent)
}

func UploadUserImage(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("user")
	if err != nil {
		badRequest(c, "upload an image")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := database.Users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		storeError(c, "UploadUserImage count", err)
		return
	}
	if count == 0 {
		notFound(c, "user", c.Param("userId"))
		return
	}

	imageURL, err := uploadImage(ctx, file, "linkedin/avatars")
	if err != nil {
		storeError(c, "UploadUserImage upload", err)
		return
	}

	_, err = database.Users.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		storeError(c, "UploadUserImage update", err)
		return
	}

	c.String(http.StatusOK, "uploaded")
}
