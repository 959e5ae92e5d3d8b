package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrNotImage is returned when a downloaded or sniffed resource is not an image.
var ErrNotImage = errors.New("the resource is not a valid image type")

// DownloadImage downloads the image from the internet and saves it into a temporary file.
// The download is aborted once more than maxBytes have been received (maxBytes <= 0 disables the limit).
// The caller is responsible for closing and removing the returned file.
func DownloadImage(ctx context.Context, uri string, maxBytes int64) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URI %s: %w", uri, err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI %s, status %v", uri, res.Status)
	}

	var body io.Reader = res.Body
	if maxBytes > 0 {
		body = io.LimitReader(res.Body, maxBytes+1)
	}

	tmpfile, err := os.CreateTemp("", "pixkit-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}
	cleanup := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}

	n, err := io.Copy(tmpfile, body)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("unable to copy the source URI into the destination file: %w", err)
	}
	if maxBytes > 0 && n > maxBytes {
		cleanup()
		return nil, fmt.Errorf("the downloaded file exceeds %s", FormatBytes(maxBytes))
	}

	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, err
	}
	ctype, err := DetectContentType(tmpfile)
	if err != nil {
		cleanup()
		return nil, err
	}
	if !strings.HasPrefix(ctype, "image/") {
		cleanup()
		return nil, ErrNotImage
	}

	return tmpfile, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	if _, err := url.ParseRequestURI(uri); err != nil {
		return false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return true
}

// DetectContentType sniffs the MIME type from the first 512 bytes of the stream
// and rewinds the reader back to its start.
func DetectContentType(r io.ReadSeeker) (string, error) {
	// Only the first 512 bytes are used to sniff the content type.
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// Always returns a valid content-type and "application/octet-stream" if no others seemed to match.
	return http.DetectContentType(buffer[:n]), nil
}

// DetectFileContentType detects the file type by reading MIME type information of the file content.
func DetectFileContentType(fname string) (string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return DetectContentType(file)
}
