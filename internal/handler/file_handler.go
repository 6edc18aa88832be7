package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/app/storage"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

const (
	imageKeyPrefix = "images"
	fileKeyPrefix  = "files"

	// FilesRoutePrefix is the public path under which uploaded objects are served.
	FilesRoutePrefix = "/files/"

	defaultContentType = "application/octet-stream"
)

// UploadResult is the body of a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// HandleUploadImage stores an image attachment from the multipart field "image".
func HandleUploadImage(deps *AppDeps) http.HandlerFunc {
	return handleUpload(deps, "image", imageKeyPrefix, true)
}

// HandleUploadFile stores a generic attachment from the multipart field "file".
func HandleUploadFile(deps *AppDeps) http.HandlerFunc {
	return handleUpload(deps, "file", fileKeyPrefix, false)
}

func handleUpload(deps *AppDeps, field, keyPrefix string, imageOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageUnavailable))
			return
		}

		maxSize := deps.Config.MaxFileSize
		if maxSize <= 0 {
			maxSize = chat.DefaultMaxFileSize
		}

		if customErr := req.SetupMultipart(w, r, maxSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile(field)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileRequired))
			return
		}
		defer file.Close()

		if customErr := chat.ValidateFileSize(header.Size, maxSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		contentType, customErr := uploadContentType(header, imageOnly)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.UploadKey(keyPrefix+"/"+identity.ID, header.Filename)

		if err := deps.Storage.Upload(r.Context(), key, contentType, file); err != nil {
			logx.Error(err, "upload: object storage rejected file", "user_id", identity.ID, "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		logx.Info("Attachment uploaded", "user_id", identity.ID, "key", key, "size", header.Size)

		resp.RespondSuccess(w, r, UploadResult{
			URL:      FilesRoutePrefix + key,
			FileName: header.Filename,
			FileSize: header.Size,
		})
	}
}

func uploadContentType(header *multipart.FileHeader, imageOnly bool) (string, *errs.CustomError) {
	declared := header.Header.Get("Content-Type")

	if imageOnly {
		if customErr := chat.ValidateImageType(header.Filename, declared); customErr != nil {
			return "", customErr
		}
		return chat.ExtToMIME[strings.ToLower(filepath.Ext(header.Filename))], nil
	}

	if declared == "" {
		return defaultContentType, nil
	}
	return declared, nil
}

// HandleDownloadFile redirects to a short-lived presigned URL for an uploaded object.
func HandleDownloadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageUnavailable))
			return
		}

		key := chi.URLParam(r, "*")
		if _, ok := uploaderOf(key); !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
			return
		}

		if _, err := deps.Storage.Stat(r.Context(), key); err != nil {
			respondStorageError(w, r, err, key)
			return
		}

		url, err := deps.Storage.PresignDownload(r.Context(), key, chat.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "download: presign failed", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}

// HandleDeleteFile removes an uploaded object. Only its uploader may delete it.
func HandleDeleteFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageUnavailable))
			return
		}

		key := chi.URLParam(r, "*")
		uploader, ok := uploaderOf(key)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
			return
		}

		if uploader != identity.ID {
			logx.Warn("delete: caller is not the uploader", "user_id", identity.ID, "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		if _, err := deps.Storage.Stat(r.Context(), key); err != nil {
			respondStorageError(w, r, err, key)
			return
		}

		if err := deps.Storage.Delete(r.Context(), key); err != nil {
			respondStorageError(w, r, err, key)
			return
		}

		logx.Info("Attachment deleted", "user_id", identity.ID, "key", key)
		resp.RespondSuccess(w, r, nil)
	}
}

// uploaderOf parses "<images|files>/<uploaderId>/<name>" and returns the uploader id.
func uploaderOf(key string) (string, bool) {
	if strings.Contains(key, "..") {
		return "", false
	}

	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" || strings.Contains(parts[2], "/") {
		return "", false
	}

	if parts[0] != imageKeyPrefix && parts[0] != fileKeyPrefix {
		return "", false
	}

	return parts[1], true
}

func respondStorageError(w http.ResponseWriter, r *http.Request, err error, key string) {
	if errors.Is(err, storage.ErrObjectNotFound) {
		resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
		return
	}

	logx.Error(err, "object storage request failed", "key", key)
	resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
}
