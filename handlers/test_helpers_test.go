package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"civiceye/config"
	"civiceye/db"
	"civiceye/models"
	"civiceye/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique shared memory name to isolate tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(&models.Report{}))

	services.Storage = services.NewLocalStorage(t.TempDir())

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader, contentType string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

type testUpload struct {
	name        string
	contentType string
	content     []byte
}

// multipartSubmission builds a multipart form body the way the public
// report form submits it: plain fields plus evidence file parts.
func multipartSubmission(t *testing.T, fields map[string]string, uploads []testUpload) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for _, upload := range uploads {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="evidence"; filename="%s"`, upload.name))
		header.Set("Content-Type", upload.contentType)

		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(upload.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func validReportFields() map[string]string {
	return map[string]string{
		"name":        "Jane Doe",
		"email":       "jane@example.com",
		"phone":       "9876543210",
		"crimeType":   "theft",
		"date":        "2024-06-15",
		"time":        "21:30",
		"location":    "MG Road, Pune",
		"state":       "MH",
		"description": "Bicycle stolen from the parking lot.",
	}
}
