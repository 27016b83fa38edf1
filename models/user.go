package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultExperienceImage = "http://placekitten.com/200/300"

// Conservative local-part/domain pattern; rejects anything fancier than
// dot/dash separated word runs and a 2-3 letter TLD chain.
var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Surname     string             `bson:"surname" json:"surname" binding:"required"`
	Email       string             `bson:"email" json:"email" binding:"required,emailpattern"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Area        string             `bson:"area,omitempty" json:"area,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Experiences []Experience       `bson:"experiences" json:"experiences"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	Company     string             `bson:"company,omitempty" json:"company,omitempty"`
	StartDate   string             `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *string            `bson:"endDate,omitempty" json:"endDate,omitempty"` // nil while the role is current
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Area        string             `bson:"area,omitempty" json:"area,omitempty"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EmailPattern is registered on gin's binding engine as "emailpattern".
func EmailPattern(fl validator.FieldLevel) bool {
	return ValidEmail(fl.Field().String())
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(NormalizeEmail(email))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PrepareInsert assigns the server-owned parts of a new user: identity,
// normalized email, timestamps and experience defaults.
func (u *User) PrepareInsert() {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Experiences == nil {
		u.Experiences = []Experience{}
	}
	for i := range u.Experiences {
		u.Experiences[i].prepare(now)
	}
}

func (e *Experience) prepare(now time.Time) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Image == "" {
		e.Image = DefaultExperienceImage
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// PrepareExperiences applies the same defaults to experiences arriving via a
// partial update.
func PrepareExperiences(experiences []Experience) []Experience {
	now := time.Now().UTC()
	for i := range experiences {
		experiences[i].prepare(now)
	}
	return experiences
}
