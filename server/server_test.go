package server

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/editor"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(&Config{Environment: "test", MaxUpload: pixkit.DefaultMaxBytes, ReadTimeout: 5, WriteTimeout: 5})
	if err != nil {
		t.Fatalf("could not create the server: %v", err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pngHeader returns a tiny PNG whose header declares a w x h image.
func pngHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:], w)
	binary.BigEndian.PutUint32(data[20:], h)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func multipartRequest(t *testing.T, path string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "upload.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
}

func TestServer_Health(t *testing.T) {
	resp, err := newTestServer(t).App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Resize(t *testing.T) {
	app := newTestServer(t).App()

	resp, err := app.Test(multipartRequest(t, "/image/resize", pngBytes(t, 200, 100), map[string]string{
		"mode": "fit", "width": "50",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(50, 25), img.Bounds().Size())

	resp, err = app.Test(multipartRequest(t, "/image/resize", pngBytes(t, 20, 20), map[string]string{
		"width": "10", "format": "jpg",
	}))
	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}

func TestServer_UploadErrors(t *testing.T) {
	app := newTestServer(t).App()
	testCases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"missing file", multipartRequest(t, "/image/resize", nil, nil), http.StatusBadRequest},
		{"not an image", multipartRequest(t, "/image/resize", []byte("plain text"), nil), http.StatusUnsupportedMediaType},
		{"bad mode", multipartRequest(t, "/image/resize", pngBytes(t, 4, 4), map[string]string{"mode": "zoom"}), http.StatusBadRequest},
		{"fill without height", multipartRequest(t, "/image/resize", pngBytes(t, 4, 4), map[string]string{"mode": "fill", "width": "2"}), http.StatusUnprocessableEntity},
		{"face without cascade", multipartRequest(t, "/image/resize", pngBytes(t, 4, 4), map[string]string{"face": "true"}), http.StatusNotImplemented},
		{"unknown filter", multipartRequest(t, "/image/filter", pngBytes(t, 4, 4), map[string]string{"filters": "glow"}), http.StatusBadRequest},
		{"huge dimensions", multipartRequest(t, "/image/resize", pngHeader(t, 200000, 200000), nil), http.StatusRequestEntityTooLarge},
		{"huge output", multipartRequest(t, "/image/resize", pngBytes(t, 4, 4), map[string]string{"mode": "exact", "width": "100000", "height": "100000"}), http.StatusUnprocessableEntity},
		{"huge watermark", multipartRequest(t, "/image/watermark", pngBytes(t, 4, 4), map[string]string{"text": "x", "scale": "100000"}), http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(tc.req)
			assert.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]string
			decodeBody(t, resp, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_FilterAndFavicon(t *testing.T) {
	app := newTestServer(t).App()

	resp, err := app.Test(multipartRequest(t, "/image/filter", pngBytes(t, 20, 10), map[string]string{
		"filters": "grayscale,rotate:90",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	img, err := png.Decode(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(10, 20), img.Bounds().Size())
	r, g, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, r, g)

	resp, err = app.Test(multipartRequest(t, "/image/favicon", pngBytes(t, 64, 64), map[string]string{"radius": "0.2"}))
	assert.NoError(t, err)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestServer_WatermarkAndMockup(t *testing.T) {
	app := newTestServer(t).App()

	resp, err := app.Test(multipartRequest(t, "/image/watermark", pngBytes(t, 100, 50), map[string]string{
		"text": "pixkit", "position": "center", "opacity": "1",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(multipartRequest(t, "/image/mockup", pngBytes(t, 100, 200), map[string]string{
		"device": "phone", "padding": "10", "shadow": "false",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	img, err := png.Decode(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(460, 900), img.Bounds().Size())
}

func TestServer_Colors(t *testing.T) {
	app := newTestServer(t).App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/color/convert?value=%23ff0000", nil))
	assert.NoError(t, err)
	var conv map[string]any
	decodeBody(t, resp, &conv)
	assert.Equal(t, "#ff0000", conv["hex"])
	assert.Equal(t, "rgb(255, 0, 0)", conv["css"].(map[string]any)["rgb"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/color/contrast?fg=black&bg=white", nil))
	assert.NoError(t, err)
	var contrast struct {
		Compliance struct {
			Ratio float64
			AAA   bool
		} `json:"compliance"`
	}
	decodeBody(t, resp, &contrast)
	assert.InDelta(t, 21, contrast.Compliance.Ratio, 0.01)
	assert.True(t, contrast.Compliance.AAA)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/color/palette?base=%23336699&scheme=triadic", nil))
	assert.NoError(t, err)
	var pal struct {
		Colors []string `json:"colors"`
	}
	decodeBody(t, resp, &pal)
	assert.Len(t, pal.Colors, 3)
	assert.Equal(t, "#336699", pal.Colors[0])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/color/convert?value=nope", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Readability(t *testing.T) {
	app := newTestServer(t).App()
	resp, err := app.Test(jsonRequest("/seo/readability", `{
		"text": "The cat sat on the mat. The dog ran to the park.",
		"title": "A Short Story About Pets",
		"html": "<h1>Pets</h1><h3>Cats</h3>"
	}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Readability struct {
			Words       int     `json:"words"`
			ReadingEase float64 `json:"readingEase"`
		} `json:"readability"`
		Slug          string `json:"slug"`
		HeadingIssues []any  `json:"headingIssues"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 12, body.Readability.Words)
	assert.Greater(t, body.Readability.ReadingEase, 80.0)
	assert.Equal(t, "a-short-story-about-pets", body.Slug)
	assert.NotEmpty(t, body.HeadingIssues)

	resp, err = app.Test(jsonRequest("/seo/readability", ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Finance(t *testing.T) {
	app := newTestServer(t).App()

	resp, err := app.Test(jsonRequest("/finance/tax", `{"status": "single", "income": 100000}`))
	assert.NoError(t, err)
	var tax struct {
		Tax          float64 `json:"tax"`
		MarginalRate float64 `json:"marginalRate"`
	}
	decodeBody(t, resp, &tax)
	assert.Equal(t, 13841.0, tax.Tax)
	assert.Equal(t, 22.0, tax.MarginalRate)

	resp, err = app.Test(jsonRequest("/finance/tax", `{"status": "nomad", "income": 1}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("/finance/loan", `{"principal": 1200, "annualRate": 0, "months": 12}`))
	assert.NoError(t, err)
	var loan struct {
		Payment  float64 `json:"payment"`
		Schedule []any   `json:"schedule"`
	}
	decodeBody(t, resp, &loan)
	assert.Equal(t, 100.0, loan.Payment)
	assert.Len(t, loan.Schedule, 12)

	resp, err = app.Test(jsonRequest("/finance/loan", `{"principal": 1200, "months": 0}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(jsonRequest("/finance/interest", `{"principal": 1000, "annualRate": 5, "years": 10, "periodsPerYear": 1}`))
	assert.NoError(t, err)
	var growth struct {
		FutureValue float64 `json:"futureValue"`
	}
	decodeBody(t, resp, &growth)
	assert.Equal(t, 1628.89, growth.FutureValue)
}

func TestServer_EditorRender(t *testing.T) {
	app := newTestServer(t).App()
	script := `{
		"width": 100, "height": 80,
		"svg": "<svg xmlns=\"http://www.w3.org/2000/svg\"><circle cx=\"50\" cy=\"40\" r=\"10\" fill=\"#ff0000\"/></svg>",
		"events": [
			{"type": "tool", "tool": "rect"},
			{"type": "down", "x": 10, "y": 10},
			{"type": "move", "x": 30, "y": 30},
			{"type": "up", "x": 30, "y": 30}
		]
	}`

	resp, err := app.Test(jsonRequest("/editor/render", script))
	assert.NoError(t, err)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	svg, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(svg), "<ellipse")
	assert.Contains(t, string(svg), "<rect")

	resp, err = app.Test(jsonRequest("/editor/render", strings.Replace(script, `"width": 100`, `"format": "png", "background": "#ffffff", "width": 100`, 1)))
	assert.NoError(t, err)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(100, 80), img.Bounds().Size())
	assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(img.At(95, 5)))

	resp, err = app.Test(jsonRequest("/editor/render", strings.Replace(script, `"width": 100`, `"format": "pdf", "width": 100`, 1)))
	assert.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	resp, err = app.Test(jsonRequest("/editor/render", `{"events": [{"type": "warp"}]}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("/editor/render", `{"format": "png", "width": 200000, "height": 200000}`))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_ImportSVGIsOneUndoStep(t *testing.T) {
	ids := editor.NewSequence("el")
	ed := editor.New(ids)
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<rect x="0" y="0" width="10" height="10"/>
		<circle cx="20" cy="20" r="5"/>
		<ellipse cx="40" cy="40" rx="5" ry="3"/>
	</svg>`

	assert.NoError(t, importSVG(ed, ids, doc))
	assert.Equal(t, 3, ed.Store().Len())
	assert.Equal(t, 2, ed.Store().History().Len())

	assert.True(t, ed.Store().Undo())
	assert.Zero(t, ed.Store().Len())
	assert.False(t, ed.Store().CanUndo())

	assert.ErrorIs(t, importSVG(ed, ids, "not xml at all"), editor.ErrNotSVG)
}
