package posts

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/blogbox/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPostNotFound = errors.New("post not found")

// SortableFields are the query param values accepted for sortBy.
var SortableFields = map[string]bool{
	"id":               true,
	"title":            true,
	"shortDescription": true,
	"content":          true,
	"blogId":           true,
	"blogName":         true,
	"createdAt":        true,
}

type Post struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	ShortDescription string             `bson:"shortDescription"`
	Content          string             `bson:"content"`
	BlogID           primitive.ObjectID `bson:"blogId"`
	BlogName         string             `bson:"blogName"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// View is the wire representation of a post.
type View struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Content          string    `json:"content"`
	BlogID           string    `json:"blogId"`
	BlogName         string    `json:"blogName"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (p Post) ToView() View {
	return View{
		ID:               p.ID.Hex(),
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Content:          p.Content,
		BlogID:           p.BlogID.Hex(),
		BlogName:         p.BlogName,
		CreatedAt:        p.CreatedAt,
	}
}

type Input struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
	BlogID           string `json:"blogId"`
}

func (in Input) Validate() validation.Errors {
	return validation.Run(
		validation.Field{
			Name:  "title",
			Value: in.Title,
			Checks: []validation.Check{
				validation.LengthBetween(3, 30, "Title length should be between 3 and 30 characters"),
			},
		},
		validation.Field{
			Name:  "shortDescription",
			Value: in.ShortDescription,
			Checks: []validation.Check{
				validation.LengthBetween(3, 100, "ShortDescription length should be between 3 and 100 characters"),
			},
		},
		validation.Field{
			Name:  "content",
			Value: in.Content,
			Checks: []validation.Check{
				validation.LengthBetween(3, 1000, "Content length should be between 3 and 1000 characters"),
			},
		},
	)
}

// Trimmed returns a copy with surrounding whitespace removed, matching
// what validation checked against.
func (in Input) Trimmed() Input {
	return Input{
		Title:            strings.TrimSpace(in.Title),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Content:          strings.TrimSpace(in.Content),
		BlogID:           strings.TrimSpace(in.BlogID),
	}
}
