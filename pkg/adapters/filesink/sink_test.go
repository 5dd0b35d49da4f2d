package filesink

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/mpvplay/pkg/mocks"
	"github.com/user/mpvplay/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("snapshots")

func pngRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil // PNG header
		},
	}
}

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{}, 0)

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveMediaInfo(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{}, 0)

	data := []byte(`{"url": "http://example.com/live.m3u8"}`)
	if err := sink.SaveMediaInfo(data); err != nil {
		t.Fatalf("SaveMediaInfo failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "mediainfo.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	var format ports.ImageFormat = -1
	renderer := pngRenderer()
	renderer.EncodeImageFunc = func(img image.Image, f ports.ImageFormat, quality int) ([]byte, error) {
		format = f
		return []byte{0x89, 0x50, 0x4E, 0x47}, nil
	}
	sink := New(testBaseDir, fs, renderer, 0)

	img := image.NewRGBA(image.Rect(0, 0, 320, 180))
	if err := sink.SaveFrame(5, img); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "frame-0005.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
	if format != ports.FormatPNG {
		t.Errorf("expected PNG encoding, got %v", format)
	}
}

func TestSink_SaveFrameScalesWideFrames(t *testing.T) {
	var gotW, gotH int
	renderer := pngRenderer()
	renderer.ResizeImageFunc = func(img image.Image, width, height int) image.Image {
		gotW, gotH = width, height
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer, 640)

	if err := sink.SaveFrame(0, image.NewRGBA(image.Rect(0, 0, 1920, 1080))); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}
	if gotW != 640 || gotH != 360 {
		t.Errorf("expected resize to 640x360, got %dx%d", gotW, gotH)
	}
}

func TestSink_SaveFrameKeepsNarrowFrames(t *testing.T) {
	renderer := pngRenderer()
	renderer.ResizeImageFunc = func(img image.Image, width, height int) image.Image {
		t.Error("narrow frame must not be resized")
		return img
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer, 640)

	if err := sink.SaveFrame(0, image.NewRGBA(image.Rect(0, 0, 320, 240))); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}
}

func TestSink_SaveFrameEncodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer, 0)

	if err := sink.SaveFrame(0, image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Error("expected encode error to be returned")
	}
}

func TestSink_MultipleFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer(), 0)

	for i := 0; i < 10; i++ {
		if err := sink.SaveFrame(i, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
			t.Fatalf("SaveFrame %d failed: %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		path := filepath.Join(testBaseDir, "frames", fmt.Sprintf("frame-%04d.png", i))
		if _, ok := fs.GetFile(path); !ok {
			t.Errorf("expected %s to exist", path)
		}
	}
}
