package controllers

import (
	"encoding/json"
	"net/http"

	"flickpick_server/services"
)

// S3Controller handles presigned-URL requests for group photos
type S3Controller struct {
	S3Service    *services.S3Service
	GroupService *services.GroupService
}

// NewS3Controller creates a new S3Controller instance
func NewS3Controller(s3Service *services.S3Service, groupService *services.GroupService) *S3Controller {
	return &S3Controller{S3Service: s3Service, GroupService: groupService}
}

// GeneratePresignedURL generates a presigned URL for uploading a group photo
func (sc *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GroupID  string `json:"groupId"`
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		http.Error(w, "fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := sc.S3Service.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		http.Error(w, "Failed to generate pre-signed URL", http.StatusInternalServerError)
		return
	}

	if payload.GroupID != "" {
		if err := sc.GroupService.SetPhotoKey(r.Context(), payload.GroupID, key); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"url": url, "key": key})
}

// GetPresignedReadURL generates a presigned URL for reading a stored photo
func (sc *S3Controller) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := sc.S3Service.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		http.Error(w, "Failed to generate read pre-signed URL", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
