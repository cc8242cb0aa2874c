package form

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
	"github.com/ridwanfathin/receipt-tracker/internal/sheetdb"
)

// RowAppender appends a receipt row to the tabular store
type RowAppender interface {
	SubmitFormData(ctx context.Context, receipt domain.Receipt) (*sheetdb.Acknowledgement, error)
}

// Config wires the pipeline to its collaborators
type Config struct {
	Store      RowAppender
	Uploader   sheetdb.Uploader
	Loader     *options.Loader
	Resize     *imageutil.ResizeConfig
	MaxWorkers int
	Logger     logrus.FieldLogger
}

// Pipeline carries the collaborators shared by every form
type Pipeline struct {
	store      RowAppender
	uploader   sheetdb.Uploader
	loader     *options.Loader
	resize     *imageutil.ResizeConfig
	workerPool chan struct{}
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewPipeline creates a new pipeline
func NewPipeline(config Config) *Pipeline {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 5
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	return &Pipeline{
		store:      config.Store,
		uploader:   config.Uploader,
		loader:     config.Loader,
		resize:     config.Resize,
		workerPool: make(chan struct{}, config.MaxWorkers),
		logger:     config.Logger,
		now:        time.Now,
	}
}

// acquire takes a worker slot, giving up when ctx is done
func (p *Pipeline) acquire(ctx context.Context) (func(), error) {
	select {
	case p.workerPool <- struct{}{}:
		return func() { <-p.workerPool }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// filename derives the upload name from the submission time
func (p *Pipeline) filename(img *imageutil.Image) string {
	return fmt.Sprintf("receipt_%d%s", p.now().UnixMilli(), img.Extension())
}

func (p *Pipeline) upload(ctx context.Context, img *imageutil.Image) (string, error) {
	if p.uploader == nil {
		return "", fmt.Errorf("%w: no uploader configured", sheetdb.ErrImageUpload)
	}

	prepared, err := imageutil.Downscale(img, p.resize)
	if err != nil {
		// Formats we cannot decode are still uploaded as selected
		p.logger.WithError(err).Debug("image not resized")
		prepared = img
	}

	return p.uploader.UploadImage(ctx, prepared.Base64(), p.filename(prepared))
}
