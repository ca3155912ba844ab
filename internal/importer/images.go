package importer

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-web/internal/models"
	"catalog-web/internal/storage"
)

// Mapping methods recorded on each ImageRowMapping.
const (
	MethodDrawingXML = "drawing-xml"
	MethodSequential = "sequential"
	MethodNone       = "none"
)

// firstContentRow is where the first product is expected when falling back to
// positional numbering: row 1 is the header, row 2 is reserved.
const firstContentRow = 3

// locatedImage is one embedded raster image with its resolved worksheet row.
type locatedImage struct {
	fileName string
	row      int
	data     []byte
	method   string
}

// anchorStrategy recovers image->row associations from workbook drawing
// metadata. It is separated from the positional fallback so the two remain
// interchangeable, selected by availability.
type anchorStrategy interface {
	locate(filePath string) ([]locatedImage, error)
}

// ImageSummary is the debug summary of one extraction pass.
type ImageSummary struct {
	TotalImages int    `json:"total_images"`
	Method      string `json:"method"`
}

// ImageLocator opens the workbook's internal container, enumerates embedded
// raster images, resolves an image->row association, and uploads each image
// to object storage.
type ImageLocator struct {
	store  storage.ObjectStore
	anchor anchorStrategy
	log    *logrus.Logger
}

func NewImageLocator(store storage.ObjectStore, log *logrus.Logger) *ImageLocator {
	return &ImageLocator{
		store:  store,
		anchor: drawingAnchors{},
		log:    log,
	}
}

// Locate resolves every embedded image in the workbook to a worksheet row and
// uploads it under a collision-resistant key. A failure on one image is
// logged and skipped; it never aborts the remaining images.
func (l *ImageLocator) Locate(ctx context.Context, filePath, jobCode string) ([]models.ImageRowMapping, ImageSummary, error) {
	media, err := listMediaEntries(filePath)
	if err != nil {
		return nil, ImageSummary{}, fmt.Errorf("failed to open workbook container: %w", err)
	}
	if len(media) == 0 {
		return nil, ImageSummary{Method: MethodNone}, nil
	}

	// Drawing metadata is authoritative when present. Media entries it does
	// not cover fall through to positional numbering.
	anchored, err := l.anchor.locate(filePath)
	if err != nil {
		l.log.WithError(err).Warn("drawing metadata unavailable, using sequential mapping")
		anchored = nil
	}

	covered := make(map[[32]byte]int)
	for _, img := range anchored {
		covered[sha256.Sum256(img.data)] = img.row
	}

	images := make([]locatedImage, 0, len(media))
	for i, entry := range media {
		img := locatedImage{fileName: entry.name, data: entry.data}
		if row, ok := covered[sha256.Sum256(entry.data)]; ok {
			img.row = row
			img.method = MethodDrawingXML
		} else {
			img.row = i + firstContentRow
			img.method = MethodSequential
		}
		images = append(images, img)
	}

	mappings := make([]models.ImageRowMapping, 0, len(images))
	drawingCount := 0
	for _, img := range images {
		key := fmt.Sprintf("imports/%s/%s%s", jobCode, uuid.New().String(), path.Ext(img.fileName))
		url, err := l.store.Upload(ctx, key, img.data, contentTypeFor(img.fileName))
		if err != nil {
			l.log.WithError(err).WithField("file", img.fileName).Warn("skipping image upload")
			continue
		}

		if img.method == MethodDrawingXML {
			drawingCount++
		}
		mappings = append(mappings, models.ImageRowMapping{
			ExcelRow:      img.row,
			ImageURL:      url,
			FileName:      img.fileName,
			MappingMethod: img.method,
		})
	}

	summary := ImageSummary{TotalImages: len(mappings), Method: MethodSequential}
	if drawingCount*2 >= len(mappings) && drawingCount > 0 {
		summary.Method = MethodDrawingXML
	}

	return mappings, summary, nil
}

// drawingAnchors reads image anchors through the workbook's drawing parts.
type drawingAnchors struct{}

func (drawingAnchors) locate(filePath string) ([]locatedImage, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	cells, err := f.GetPictureCells(sheets[0])
	if err != nil {
		return nil, err
	}

	var images []locatedImage
	for _, cell := range cells {
		_, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			continue
		}
		pictures, err := f.GetPictures(sheets[0], cell)
		if err != nil {
			continue
		}
		for _, pic := range pictures {
			images = append(images, locatedImage{
				fileName: cell + pic.Extension,
				row:      row,
				data:     pic.File,
				method:   MethodDrawingXML,
			})
		}
	}

	return images, nil
}

type mediaEntry struct {
	name string
	data []byte
}

var mediaSuffixPattern = regexp.MustCompile(`(\d+)\.\w+$`)

var rasterExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// listMediaEntries enumerates raster images inside the xl/media folder of the
// workbook archive, sorted by the numeric suffix of their filename. This
// order is the deterministic fallback sequence.
func listMediaEntries(filePath string) ([]mediaEntry, error) {
	reader, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var entries []mediaEntry
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "xl/media/") {
			continue
		}
		if !rasterExtensions[strings.ToLower(path.Ext(file.Name))] {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		entries = append(entries, mediaEntry{name: path.Base(file.Name), data: data})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return mediaSuffix(entries[i].name) < mediaSuffix(entries[j].name)
	})

	return entries, nil
}

func mediaSuffix(name string) int {
	match := mediaSuffixPattern.FindStringSubmatch(name)
	if match == nil {
		return 0
	}
	n, _ := strconv.Atoi(match[1])
	return n
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
