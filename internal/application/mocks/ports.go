package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// Queue cola en memoria que registra los IDs publicados.
type Queue struct {
	mu        sync.Mutex
	Published []string
	Err       error
}

func (q *Queue) Publish(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Published = append(q.Published, id)
	return nil
}

func (q *Queue) Consume(ctx context.Context, _ func(ctx context.Context, id string) error) error {
	<-ctx.Done()
	return nil
}

func (q *Queue) Close() error { return nil }

// SentMessage mensaje capturado por Sender.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// Sender captura emails y SMS.
type Sender struct {
	mu     sync.Mutex
	Emails []SentMessage
	SMS    []SentMessage
	Err    error
}

func (s *Sender) SendEmail(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Emails = append(s.Emails, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (s *Sender) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.SMS = append(s.SMS, SentMessage{To: to, Body: body})
	return nil
}

// BlogGenerator mock.
type BlogGenerator struct{ mock.Mock }

func (m *BlogGenerator) GenerateBlogPost(ctx context.Context, p ports.BlogPrompt) (*ports.BlogDraft, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.BlogDraft), args.Error(1)
}

// WordPressPublisher mock.
type WordPressPublisher struct{ mock.Mock }

func (m *WordPressPublisher) PublishPost(ctx context.Context, site ports.WordPressSite, title, content, slug string, existingID *int64) (int64, error) {
	args := m.Called(ctx, site, title, content, slug, existingID)
	return args.Get(0).(int64), args.Error(1)
}

// ObjectStorage guarda en memoria.
type ObjectStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func (s *ObjectStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.Err != nil {
		return s.Err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Objects == nil {
		s.Objects = map[string][]byte{}
	}
	s.Objects[key] = b
	return nil
}

func (s *ObjectStorage) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "https://storage.test/" + key, nil
}

// ImageProcessor devuelve los mismos bytes o Err.
type ImageProcessor struct{ Err error }

func (p ImageProcessor) Thumbnail(data []byte, _ int) ([]byte, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return data, nil
}

// PaymentProvider mock.
type PaymentProvider struct{ mock.Mock }

func (m *PaymentProvider) Charge(ctx context.Context, req ports.ChargeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// PDFRenderer devuelve un PDF falso.
type PDFRenderer struct{ Err error }

func (r PDFRenderer) RenderInvoice(_ *entity.BillingInvoice, _ *entity.Company, _ *entity.SubscriptionPlan) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-1.4 test"), nil
}

// SpreadsheetCodec mock.
type SpreadsheetCodec struct{ mock.Mock }

func (m *SpreadsheetCodec) ExportCheckIns(list []*entity.CheckIn, names map[string]string) ([]byte, error) {
	args := m.Called(list, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *SpreadsheetCodec) ParseTechnicians(r io.Reader) ([]ports.TechnicianRow, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.TechnicianRow), args.Error(1)
}

var (
	_ ports.ReviewQueue        = (*Queue)(nil)
	_ ports.EmailSender        = (*Sender)(nil)
	_ ports.SMSSender          = (*Sender)(nil)
	_ ports.BlogGenerator      = (*BlogGenerator)(nil)
	_ ports.WordPressPublisher = (*WordPressPublisher)(nil)
	_ ports.ObjectStorage      = (*ObjectStorage)(nil)
	_ ports.ImageProcessor     = ImageProcessor{}
	_ ports.PaymentProvider    = (*PaymentProvider)(nil)
	_ ports.InvoicePDFRenderer = PDFRenderer{}
	_ ports.SpreadsheetCodec   = (*SpreadsheetCodec)(nil)
)
