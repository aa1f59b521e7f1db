package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxEvidenceSize caps individual evidence files at 10MB
	MaxEvidenceSize = 10 * 1024 * 1024

	// CameraFieldPrefix marks submission fields carrying inline camera
	// captures as data URIs
	CameraFieldPrefix = "cameraImage"
)

// allowedEvidenceMimeTypes is the upload-boundary whitelist. Anything else is
// rejected before the reconciler ever sees the file.
var allowedEvidenceMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// dataURIPattern matches the data-URI prefix of an inline camera capture
var dataURIPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// ValidateEvidenceUpload checks size and mime type of an uploaded evidence
// file. It performs no writes, so a rejected submission leaves no artifacts.
func ValidateEvidenceUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxEvidenceSize {
		return fmt.Errorf("%w: file %q exceeds maximum allowed size of 10MB", ErrValidation, fileHeader.Filename)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedEvidenceMimeTypes[contentType] {
		return fmt.Errorf("%w: file type %q not allowed. Accepted formats: JPG, PNG, GIF, PDF, DOC, DOCX", ErrValidation, contentType)
	}

	return nil
}

// ValidateCameraCaptures decodes every cameraImage* field without writing
// anything, so a malformed capture is caught before the first blob is stored.
func ValidateCameraCaptures(fields map[string]string) error {
	for key, value := range fields {
		if !strings.HasPrefix(key, CameraFieldPrefix) {
			continue
		}
		if _, err := decodeCameraCapture(value); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrValidation, key, err)
		}
	}
	return nil
}

// SaveEvidenceUpload stores an already-validated multipart file in the
// evidence blob location and returns the stored filename.
func SaveEvidenceUpload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	key := GenerateEvidenceKey(fileHeader.Filename)
	result, err := Storage.Upload(ctx, fileHeader, key)
	if err != nil {
		return "", fmt.Errorf("%w: failed to store evidence file: %v", ErrPersistence, err)
	}
	return result.FileName, nil
}

// ReconcileEvidence merges the two evidence transports into one ordered list
// of filenames: already-saved upload references first (in arrival order),
// then camera captures decoded from cameraImage* fields (in sorted field
// order). Camera bytes are written verbatim to the evidence blob location
// under camera_<epoch-millis>_<index>.jpg.
//
// A malformed data URI or base64 payload fails the whole reconciliation:
// the submission aborts rather than silently dropping evidence.
func ReconcileEvidence(ctx context.Context, uploaded []string, fields map[string]string) ([]string, error) {
	evidence := make([]string, 0, len(uploaded))
	evidence = append(evidence, uploaded...)

	var cameraKeys []string
	for key := range fields {
		if strings.HasPrefix(key, CameraFieldPrefix) {
			cameraKeys = append(cameraKeys, key)
		}
	}
	sort.Slice(cameraKeys, func(i, j int) bool {
		a, b := cameraFieldIndex(cameraKeys[i]), cameraFieldIndex(cameraKeys[j])
		if a != b {
			return a < b
		}
		return cameraKeys[i] < cameraKeys[j]
	})

	epochMillis := time.Now().UnixMilli()
	for i, key := range cameraKeys {
		raw, err := decodeCameraCapture(fields[key])
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrValidation, key, err)
		}

		filename := fmt.Sprintf("camera_%d_%d.jpg", epochMillis, i)
		_, err = Storage.UploadReader(ctx, bytes.NewReader(raw), EvidenceKey(filename), "image/jpeg", int64(len(raw)))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to store camera capture: %v", ErrPersistence, err)
		}

		evidence = append(evidence, filename)
	}

	return evidence, nil
}

// cameraFieldIndex extracts the numeric suffix of a cameraImage* field so
// arrival order survives past index 9, where lexical order would put
// cameraImage10 before cameraImage2. Non-numeric suffixes sort last.
func cameraFieldIndex(key string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(key, CameraFieldPrefix))
	if err != nil {
		return math.MaxInt
	}
	return n
}

// decodeCameraCapture strips the data-URI prefix and decodes the base64
// payload to raw image bytes.
func decodeCameraCapture(value string) ([]byte, error) {
	prefix := dataURIPattern.FindString(value)
	if prefix == "" {
		return nil, fmt.Errorf("not a base64 image data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(value[len(prefix):])
	if err != nil {
		return nil, fmt.Errorf("malformed base64 payload: %v", err)
	}

	return raw, nil
}
