package form

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
	"github.com/ridwanfathin/receipt-tracker/internal/sheetdb"
)

// State is the submission state of a form
type State int

const (
	Editing State = iota
	Uploading
	Submitting
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Uploading:
		return "uploading"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Result describes a successful submission
type Result struct {
	Receipt  domain.Receipt
	Ack      *sheetdb.Acknowledgement
	Uploaded bool
}

// Form holds everything a user has entered for one receipt, the photo
// staged for upload and the option lists loaded when the form was mounted.
// It is safe for concurrent use; at most one submission runs at a time.
type Form struct {
	id       string
	pipeline *Pipeline

	mu       sync.Mutex
	state    State
	fields   domain.Receipt
	image    *imageutil.Image
	options  options.Lists
	lastUsed time.Time
}

// NewForm creates an empty form in the Editing state
func (p *Pipeline) NewForm(id string) *Form {
	return &Form{
		id:       id,
		pipeline: p,
		options:  options.Lists{},
		lastUsed: p.now(),
	}
}

// ID returns the form identifier
func (f *Form) ID() string {
	return f.id
}

// Mount loads the option lists. A list that fails to load is left empty and
// reported in the result; the form stays usable either way.
func (f *Form) Mount(ctx context.Context) *options.Result {
	if f.pipeline.loader == nil {
		return &options.Result{Lists: options.Lists{}, Errors: map[domain.OptionList]error{}}
	}

	result := f.pipeline.loader.Load(ctx)

	f.mu.Lock()
	f.options = result.Lists
	f.lastUsed = f.pipeline.now()
	f.mu.Unlock()

	return result
}

// Options returns the option lists loaded at mount
func (f *Form) Options() options.Lists {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options
}

// State returns the current submission state
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fields returns a copy of the entered values
func (f *Form) Fields() domain.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetFields replaces every entered value
func (f *Form) SetFields(fields domain.Receipt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
	f.lastUsed = f.pipeline.now()
}

// StageImage selects a photo to upload on the next submission
func (f *Form) StageImage(img *imageutil.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.image = img
	f.lastUsed = f.pipeline.now()
}

// ClearImage drops the staged photo
func (f *Form) ClearImage() {
	f.StageImage(nil)
}

// Image returns the staged photo, or nil
func (f *Form) Image() *imageutil.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.image
}

// LastUsed returns when the form was last touched
func (f *Form) LastUsed() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsed
}

// Submit validates the entered values, uploads the staged photo if there is
// one, and appends the receipt as a new row. On success the form is reset to
// empty; on any failure the entered values and staged photo are kept.
//
// The row's image reference is the uploaded URL when a photo is staged,
// otherwise the pasted URL, otherwise "".
func (f *Form) Submit(ctx context.Context) (*Result, error) {
	p := f.pipeline
	logger := p.logger.WithField("form_id", f.id)

	f.mu.Lock()
	if f.state != Editing {
		f.mu.Unlock()
		return nil, ErrBusy
	}

	record := f.fields.Trimmed()
	img := f.image

	check := record
	if img != nil {
		// A staged photo takes precedence, so the pasted URL is not used
		check.ImageURL = ""
	}
	if errs := Validate(check); errs != nil {
		f.mu.Unlock()
		return nil, &SubmitError{Stage: StageValidate, Err: errs}
	}

	if img != nil {
		f.state = Uploading
	} else {
		f.state = Submitting
	}
	f.lastUsed = p.now()
	f.mu.Unlock()

	release, err := p.acquire(ctx)
	if err != nil {
		f.setState(Editing)
		stage := StageSubmit
		if img != nil {
			stage = StageUpload
		}
		return nil, &SubmitError{Stage: stage, Err: err}
	}
	defer release()

	var uploadedURL string
	if img != nil {
		logger.WithField("bytes", img.Size()).Debug("uploading receipt image")

		uploadedURL, err = p.upload(ctx, img)
		if err != nil {
			f.setState(Editing)
			logger.WithError(err).WithField("stage", StageUpload).Error("receipt image upload failed")
			return nil, &SubmitError{Stage: StageUpload, Err: err}
		}

		record.ImageURL = uploadedURL
		f.setState(Submitting)
	}

	logger.Debug("submitting receipt row")

	ack, err := p.store.SubmitFormData(ctx, record)
	if err != nil {
		f.setState(Editing)
		logger.WithError(err).WithFields(logrus.Fields{
			"stage":     StageSubmit,
			"image_url": uploadedURL,
		}).Error("receipt row submission failed")
		return nil, &SubmitError{Stage: StageSubmit, ImageURL: uploadedURL, Err: err}
	}

	f.mu.Lock()
	f.fields = domain.Receipt{}
	f.image = nil
	f.state = Editing
	f.lastUsed = p.now()
	f.mu.Unlock()

	logger.Debug("receipt submitted, form reset")

	return &Result{
		Receipt:  record,
		Ack:      ack,
		Uploaded: img != nil,
	}, nil
}

func (f *Form) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}
