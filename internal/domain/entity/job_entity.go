package entity

import "strconv"

// ThumbnailJob is the payload put on the file queue after an image upload.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// WelcomeJob is the payload put on the user queue after registration.
type WelcomeJob struct {
	UserID string `json:"userId"`
}

// ThumbnailPath derives the storage location of a resized copy.
func ThumbnailPath(original string, width int) string {
	return original + "_" + strconv.Itoa(width)
}
