// Package messages builds the human-readable notification texts. One fixed
// template per event type, composed from the actor's display name.
package messages

import (
	"fmt"
	"strings"
)

func NewPost(firstName, lastName, title string) string {
	return fmt.Sprintf(NewPostBody, firstName, lastName, title)
}

func NewComment(firstName, lastName string) string {
	return fmt.Sprintf(NewCommentBody, firstName, lastName)
}

// NewLike uses the full name, or AnonymousActor when both parts are empty.
func NewLike(firstName, lastName string) string {
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" || name == "Unknown" {
		name = AnonymousActor
	}
	return fmt.Sprintf(NewLikeBody, name)
}

func NewMaterial(title string) string {
	return fmt.Sprintf(NewMaterialBody, title)
}

func EnrollmentGranted(moduleName string) string {
	return fmt.Sprintf(EnrollmentGrantedBody, moduleName)
}
