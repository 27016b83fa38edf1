package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is stored as a single document: comments and likes live inside it and
// are never persisted on their own. Anything the client sends beyond the
// fixed fields ends up in Fields and is written back at the top level of the
// document.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID   `bson:"user,omitempty" json:"-"`
	Image     string               `bson:"image,omitempty" json:"-"`
	Likes     []primitive.ObjectID `bson:"likes" json:"-"`
	Comments  []Comment            `bson:"comments" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"-"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"-"`
	Fields    bson.M               `bson:",inline" json:"-"`

	// Populated in responses only, replaces the raw user reference.
	User *UserSummary `bson:"-" json:"-"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	UserID    primitive.ObjectID `bson:"user,omitempty" json:"-"`
	PostID    primitive.ObjectID `bson:"post,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
	Fields    bson.M             `bson:",inline" json:"-"`

	User *UserSummary `bson:"-" json:"-"`
}

// UserSummary is the projection attached when a weak user reference is
// resolved: _id, name, surname, image.
type UserSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Surname string             `bson:"surname" json:"surname"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Keys owned by the server; client-supplied values for these are dropped
// before a document is written.
var reservedPostKeys = []string{"_id", "likes", "comments", "createdAt", "updatedAt"}
var reservedCommentKeys = []string{"_id", "post", "createdAt", "updatedAt"}

// NewPost builds a Post from a request body. The "user" field, when present,
// must be a hex object id; everything else except the reserved keys is kept
// verbatim.
func NewPost(body map[string]interface{}) (Post, error) {
	now := time.Now().UTC()
	post := Post{
		ID:        primitive.NewObjectID(),
		Likes:     []primitive.ObjectID{},
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    bson.M{},
	}

	for k, v := range body {
		switch k {
		case "user":
			id, err := parseUserRef(v)
			if err != nil {
				return Post{}, err
			}
			post.UserID = id
		case "image":
			if s, ok := v.(string); ok {
				post.Image = s
			}
		default:
			if !isReserved(k, reservedPostKeys) {
				post.Fields[k] = v
			}
		}
	}

	return post, nil
}

// NewComment builds a Comment destined for the given post's comments array.
func NewComment(postID primitive.ObjectID, body map[string]interface{}) (Comment, error) {
	now := time.Now().UTC()
	comment := Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    bson.M{},
	}

	for k, v := range body {
		switch k {
		case "user":
			id, err := parseUserRef(v)
			if err != nil {
				return Comment{}, err
			}
			comment.UserID = id
		default:
			if !isReserved(k, reservedCommentKeys) {
				comment.Fields[k] = v
			}
		}
	}

	return comment, nil
}

func parseUserRef(v interface{}) (primitive.ObjectID, error) {
	s, ok := v.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("user must be a hex object id")
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id %s", s)
	}
	return id, nil
}

func isReserved(key string, reserved []string) bool {
	for _, r := range reserved {
		if key == r {
			return true
		}
	}
	return false
}

func (p Post) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Fields)+7)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["_id"] = p.ID

	if p.User != nil {
		out["user"] = p.User
	} else if !p.UserID.IsZero() {
		out["user"] = p.UserID
	}
	if p.Image != "" {
		out["image"] = p.Image
	}

	likes := p.Likes
	if likes == nil {
		likes = []primitive.ObjectID{}
	}
	out["likes"] = likes

	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	out["comments"] = comments

	out["createdAt"] = p.CreatedAt
	out["updatedAt"] = p.UpdatedAt
	return json.Marshal(out)
}

func (c Comment) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Fields)+5)
	for k, v := range c.Fields {
		out[k] = v
	}
	out["_id"] = c.ID

	if c.User != nil {
		out["user"] = c.User
	} else if !c.UserID.IsZero() {
		out["user"] = c.UserID
	}
	if !c.PostID.IsZero() {
		out["post"] = c.PostID
	}

	out["createdAt"] = c.CreatedAt
	out["updatedAt"] = c.UpdatedAt
	return json.Marshal(out)
}
