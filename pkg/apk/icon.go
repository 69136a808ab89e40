package apk

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

// IconSize is the edge length of extracted icons
const IconSize = 144

// iconCandidates are tried in order before any other launcher icon
var iconCandidates = []string{
	"res/mipmap-xxxhdpi/ic_launcher.png",
	"res/mipmap-xxhdpi/ic_launcher.png",
	"res/mipmap-xhdpi/ic_launcher.png",
	"res/mipmap-hdpi/ic_launcher.png",
	"res/drawable-xxxhdpi/ic_launcher.png",
	"res/drawable-xxhdpi/ic_launcher.png",
	"res/drawable-xhdpi/ic_launcher.png",
	"res/drawable-hdpi/ic_launcher.png",
	"res/mipmap-xxxhdpi/ic_launcher.webp",
	"res/mipmap-xxhdpi/ic_launcher.webp",
	"res/mipmap-xhdpi/ic_launcher.webp",
	"res/mipmap-hdpi/ic_launcher.webp",
}

// ExtractIcon returns the launcher icon of the package at file as a
// square PNG of IconSize pixels
func (i *Inspector) ExtractIcon(file string) ([]byte, error) {
	f, err := i.fs.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return nil, invalidPackage(err, file)
	}

	entry := findIcon(zr)
	if entry == nil {
		return nil, fmt.Errorf("no launcher icon found in %s", file)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return encodeIcon(data, path.Ext(entry.Name))
}

func findIcon(zr *zip.Reader) *zip.File {
	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}
	for _, name := range iconCandidates {
		if f, ok := byName[name]; ok {
			return f
		}
	}

	// adaptive icon layers are not usable on their own
	for _, f := range zr.File {
		name := f.Name
		if strings.Contains(name, "ic_launcher") &&
			(strings.HasSuffix(name, ".png") || strings.HasSuffix(name, ".webp")) &&
			!strings.Contains(name, "_foreground") &&
			!strings.Contains(name, "_background") {
			return f
		}
	}
	return nil
}

func encodeIcon(data []byte, ext string) ([]byte, error) {
	var img image.Image
	var err error
	if ext == ".webp" {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon: %w", err)
	}

	resized := resize.Resize(IconSize, IconSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
