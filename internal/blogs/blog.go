package blogs

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/blogbox/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrBlogNotFound = errors.New("blog not found")

// SortableFields are the query param values accepted for sortBy.
var SortableFields = map[string]bool{
	"id":           true,
	"name":         true,
	"description":  true,
	"websiteUrl":   true,
	"createdAt":    true,
	"isMembership": true,
}

type Blog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	WebsiteURL   string             `bson:"websiteUrl"`
	CreatedAt    time.Time          `bson:"createdAt"`
	IsMembership bool               `bson:"isMembership"`
}

// View is the wire representation of a blog.
type View struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	WebsiteURL   string    `json:"websiteUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	IsMembership bool      `json:"isMembership"`
}

func (b Blog) ToView() View {
	return View{
		ID:           b.ID.Hex(),
		Name:         b.Name,
		Description:  b.Description,
		WebsiteURL:   b.WebsiteURL,
		CreatedAt:    b.CreatedAt,
		IsMembership: b.IsMembership,
	}
}

type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

func (in Input) Validate() validation.Errors {
	return validation.Run(
		validation.Field{
			Name:  "name",
			Value: in.Name,
			Checks: []validation.Check{
				validation.LengthBetween(3, 15, "Name length should be between 3 and 15 characters"),
			},
		},
		validation.Field{
			Name:  "description",
			Value: in.Description,
			Checks: []validation.Check{
				validation.LengthBetween(3, 500, "Description length should be between 3 and 500 characters"),
			},
		},
		validation.Field{
			Name:  "websiteUrl",
			Value: in.WebsiteURL,
			Checks: []validation.Check{
				validation.MaxLength(100, "Max allowed length of url is 100 characters"),
				validation.SecureURL("Incorrect url"),
			},
		},
	)
}

// Trimmed returns a copy with surrounding whitespace removed, matching
// what validation checked against.
func (in Input) Trimmed() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		WebsiteURL:  strings.TrimSpace(in.WebsiteURL),
	}
}
