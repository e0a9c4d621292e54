package repository

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Request inputs. Pointer fields on the update inputs distinguish "not
// provided" from an explicit zero value, so partial updates only touch the
// fields the caller sent.

type CreateFolderInput struct {
	Name string `json:"name"`
}

func (in CreateFolderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
	)
}

type CreateDeckInput struct {
	Name        string `json:"name"`
	FolderID    string `json:"folder_id"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (in CreateDeckInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.FolderID, validation.Required),
	)
}

type UpdateDeckInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type CreateCardInput struct {
	DeckID string `json:"deck_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

func (in CreateCardInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DeckID, validation.Required),
		validation.Field(&in.Front, validation.Required),
		validation.Field(&in.Back, validation.Required),
	)
}

type UpdateCardInput struct {
	Front      *string `json:"front"`
	Back       *string `json:"back"`
	Difficulty *int    `json:"difficulty"`
}
