package imagery

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	// Decoders for the formats APOD has published.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/logging"
	"github.com/litescript/apod-desktop/internal/version"
)

const (
	// DefaultTimeout bounds a whole image download.
	DefaultTimeout = 5 * time.Minute

	// DefaultWidth and DefaultHeight are used when no resolution is set.
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Downloader fetches images into a directory as screen-sized PNG files.
type Downloader struct {
	dir     string
	width   int
	height  int
	fit     Fit
	client  *http.Client
	timeout time.Duration
	tracker Tracker
	logger  *logging.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithFit sets how images are mapped onto the resolution.
func WithFit(fit Fit) Option {
	return func(d *Downloader) {
		d.fit = fit
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithTimeout sets the download timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) {
		d.timeout = timeout
	}
}

// WithTracker sets how progress is displayed.
func WithTracker(t Tracker) Option {
	return func(d *Downloader) {
		d.tracker = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Downloader) {
		d.logger = l
	}
}

// NewDownloader creates a Downloader writing into dir. Non-positive
// dimensions fall back to DefaultWidth x DefaultHeight.
func NewDownloader(dir string, width, height int, opts ...Option) *Downloader {
	d := &Downloader{
		dir:     dir,
		width:   width,
		height:  height,
		fit:     FitStretch,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.width <= 0 || d.height <= 0 {
		d.width, d.height = DefaultWidth, DefaultHeight
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: d.timeout}
	}
	if d.tracker == nil {
		d.tracker = LogTracker{Logger: d.logger}
	}
	return d
}

// Dir returns the download directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// LocalPath returns where the image at imageURL is stored: the URL's file
// name with a .png extension, inside the download directory.
func (d *Downloader) LocalPath(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", apperr.Parse("parse image URL", err)
	}
	base := path.Base(u.Path)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "", apperr.Errorf(apperr.KindParse, "derive file name", "no file name in %q", imageURL)
	}
	return filepath.Join(d.dir, name+".png"), nil
}

// DownloadAndResize stores the image at imageURL as a resized PNG and
// returns its path. If that file already exists nothing is downloaded.
func (d *Downloader) DownloadAndResize(ctx context.Context, imageURL string) (string, error) {
	dest, err := d.LocalPath(imageURL)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(dest); err == nil {
		d.logger.Debug("File exists, moving on: %s", dest)
		return dest, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", apperr.Filesystem("stat "+dest, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", apperr.Filesystem("create download dir", err)
	}

	raw, err := d.download(ctx, imageURL, filepath.Base(dest))
	if err != nil {
		return "", err
	}
	defer os.Remove(raw)

	src, format, err := decodeFile(raw)
	if err != nil {
		return "", err
	}

	d.logger.Debug("Resizing %dx%d %s image to %dx%d (%s)",
		src.Bounds().Dx(), src.Bounds().Dy(), format, d.width, d.height, d.fit)
	out := Resize(src, d.width, d.height, d.fit)

	d.logger.Debug("Saving the image to %s", dest)
	if err := writePNG(dest, out); err != nil {
		return "", err
	}
	return dest, nil
}

// download streams imageURL into a temporary file in the download
// directory and returns its path.
func (d *Downloader) download(ctx context.Context, imageURL, label string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", apperr.Parse("create request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		return "", apperr.Network("download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Errorf(apperr.KindNetwork, "download image", "unexpected status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*.part")
	if err != nil {
		return "", apperr.Filesystem("create download file", err)
	}
	name := tmp.Name()

	err = d.tracker.Track(ctx, label, func(progress ProgressFunc) error {
		counter := &countingWriter{total: resp.ContentLength, progress: progress}
		if _, err := io.Copy(io.MultiWriter(tmp, counter), resp.Body); err != nil {
			return apperr.Network("download image", err)
		}
		return nil
	})
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = apperr.Filesystem("close download file", cerr)
	}
	if err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func decodeFile(name string) (image.Image, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, "", apperr.Filesystem("open download", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", apperr.Parse("decode image", err)
	}
	return img, format, nil
}

// writePNG encodes img next to dest and renames it into place.
func writePNG(dest string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return apperr.Filesystem("create image file", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return apperr.Filesystem("encode png", fmt.Errorf("%s: %w", dest, err))
	}
	if err := tmp.Close(); err != nil {
		return apperr.Filesystem("close image file", err)
	}
	if err := os.Rename(name, dest); err != nil {
		return apperr.Filesystem("move image into place", err)
	}
	return nil
}
