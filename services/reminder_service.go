package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// Message is one outgoing reminder.
type Message struct {
	To      string
	Channel string
	Body    string
}

// Sender delivers a message and returns the provider id, if any.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

type twilioSender struct {
	client *twilio.RestClient
	cfg    TwilioConfig
}

func NewTwilioSender(cfg TwilioConfig) Sender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		cfg: cfg,
	}
}

func (s *twilioSender) Send(_ context.Context, msg Message) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(msg.Body)
	if msg.Channel == models.ChannelWhatsApp {
		params.SetTo("whatsapp:" + msg.To)
		params.SetFrom("whatsapp:" + s.cfg.WhatsAppNumber)
	} else {
		params.SetTo(msg.To)
		params.SetFrom(s.cfg.PhoneNumber)
	}
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// logSender only logs messages. Used when no Twilio credentials are set.
type logSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) Sender {
	return &logSender{logger: logger.Named("sender")}
}

func (s *logSender) Send(_ context.Context, msg Message) (string, error) {
	s.logger.Info("message not delivered, no provider configured",
		zap.String("to", msg.To),
		zap.String("channel", msg.Channel),
		zap.Int("length", len(msg.Body)),
	)
	return "", nil
}

// channelFor picks WhatsApp for E.164 numbers, SMS otherwise.
func channelFor(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return models.ChannelWhatsApp
	}
	return models.ChannelSMS
}

// RenderTemplate replaces the [Placeholder] tokens in message.
func RenderTemplate(message string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "["+k+"]", v)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

type TemplateFields struct {
	Type     *string `json:"type"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"is_active"`
}

func (f TemplateFields) apply(t *models.ReminderTemplate) {
	if f.Type != nil {
		t.Type = strings.TrimSpace(*f.Type)
	}
	if f.Message != nil {
		t.Message = strings.TrimSpace(*f.Message)
	}
	if f.IsActive != nil {
		t.IsActive = *f.IsActive
	}
}

// ReminderRun reports one pass of the reminder job.
type ReminderRun struct {
	Date    string `json:"date"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

type ReminderService struct {
	store    *repository.Store
	sender   Sender
	validate *validator.Validate
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

func NewReminderService(store *repository.Store, sender Sender, validate *validator.Validate, logger *zap.Logger, recorder Recorder, now func() time.Time) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		store:    store,
		sender:   sender,
		validate: validate,
		logger:   logger.Named("reminders"),
		recorder: orNop(recorder),
		now:      now,
	}
}

func (s *ReminderService) ListTemplates(ctx context.Context, actor Actor) ([]models.ReminderTemplate, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.ReminderTemplates.List(ctx)
}

func (s *ReminderService) GetTemplate(ctx context.Context, actor Actor, id uuid.UUID) (*models.ReminderTemplate, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.ReminderTemplates.Get(ctx, id)
}

func (s *ReminderService) CreateTemplate(ctx context.Context, actor Actor, fields TemplateFields) (*models.ReminderTemplate, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	t := &models.ReminderTemplate{ID: uuid.New(), IsActive: true}
	fields.apply(t)
	if err := checkStruct(s.validate, t); err != nil {
		return nil, err
	}
	if err := s.store.ReminderTemplates.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("type", "a template of this type already exists")
		}
		return nil, err
	}
	return t, nil
}

func (s *ReminderService) UpdateTemplate(ctx context.Context, actor Actor, id uuid.UUID, fields TemplateFields) (*models.ReminderTemplate, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	t, err := s.store.ReminderTemplates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields.apply(t)
	if err := checkStruct(s.validate, t); err != nil {
		return nil, err
	}
	if err := s.store.ReminderTemplates.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("type", "a template of this type already exists")
		}
		return nil, err
	}
	return t, nil
}

func (s *ReminderService) DeleteTemplate(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireOperator(actor); err != nil {
		return err
	}
	return s.store.ReminderTemplates.Delete(ctx, id)
}

// Logs returns the newest reminder logs first.
func (s *ReminderService) Logs(ctx context.Context, actor Actor, limit int) ([]models.ReminderLog, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return s.store.ReminderLogs.List(ctx, limit)
}

// Run triggers the reminder job on behalf of an operator.
func (s *ReminderService) Run(ctx context.Context, actor Actor) (*ReminderRun, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.SendUpcomingReminders(ctx)
}

// SendUpcomingReminders messages every customer with a pending or confirmed
// appointment tomorrow. An appointment that already has a sent reminder is
// skipped, so the job can be re-run safely.
func (s *ReminderService) SendUpcomingReminders(ctx context.Context) (*ReminderRun, error) {
	run := &ReminderRun{Date: s.now().AddDate(0, 0, 1).Format(models.DateFormat)}
	s.logger.Info("starting reminder processing", zap.String("date", run.Date))

	tmpl, err := s.store.ReminderTemplates.GetByType(ctx, models.ReminderTypeReminder)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("no reminder template configured")
		return run, nil
	}
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		s.logger.Info("reminder template inactive, nothing sent")
		return run, nil
	}

	list, err := s.store.Appointments.List(ctx, repository.AppointmentFilter{
		Date:     run.Date,
		Statuses: []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed},
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		switch s.deliver(ctx, tmpl, &list[i]) {
		case models.ReminderStatusSent:
			run.Sent++
		case models.ReminderStatusFailed:
			run.Failed++
		default:
			run.Skipped++
		}
	}
	s.logger.Info("reminder processing completed",
		zap.Int("sent", run.Sent),
		zap.Int("failed", run.Failed),
		zap.Int("skipped", run.Skipped),
	)
	return run, nil
}

// SendConfirmation sends the confirmation template for one appointment.
func (s *ReminderService) SendConfirmation(ctx context.Context, actor Actor, appointmentID uuid.UUID) (*models.ReminderLog, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	apt, err := s.store.Appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !apt.IsActive() {
		return nil, fmt.Errorf("%w: appointment is cancelled", ErrInvalidTransition)
	}
	tmpl, err := s.store.ReminderTemplates.GetByType(ctx, models.ReminderTypeConfirmation)
	if err != nil {
		return nil, err
	}
	entry, err := s.send(ctx, tmpl, apt)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// deliver returns the log status, or "" when the appointment was skipped.
func (s *ReminderService) deliver(ctx context.Context, tmpl *models.ReminderTemplate, apt *models.Appointment) string {
	done, err := s.store.ReminderLogs.Exists(ctx, apt.ID, tmpl.Type)
	if err != nil {
		s.logger.Error("check reminder log failed", zap.String("appointment", apt.ID.String()), zap.Error(err))
		return ""
	}
	if done {
		return ""
	}
	entry, err := s.send(ctx, tmpl, apt)
	switch {
	case err != nil && entry != nil:
		s.logger.Error("reminder not recorded", zap.String("appointment", apt.ID.String()), zap.Error(err))
		return models.ReminderStatusFailed
	case err != nil:
		s.logger.Info("reminder skipped", zap.String("appointment", apt.ID.String()), zap.Error(err))
		return ""
	}
	return entry.Status
}

var errNoPhone = errors.New("customer has no phone number")

func (s *ReminderService) send(ctx context.Context, tmpl *models.ReminderTemplate, apt *models.Appointment) (*models.ReminderLog, error) {
	customer, err := s.store.Users.Get(ctx, apt.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Phone == "" {
		return nil, errNoPhone
	}

	values := map[string]string{
		"CustomerName": customer.Name,
		"Date":         apt.AppointmentDate,
		"Time":         apt.AppointmentTime,
		"ServiceName":  "",
		"StylistName":  "any available stylist",
	}
	if svc, err := s.store.Services.Get(ctx, apt.ServiceID); err == nil {
		values["ServiceName"] = svc.Name
	}
	if apt.StylistID != nil {
		if st, err := s.store.Stylists.Get(ctx, *apt.StylistID); err == nil {
			values["StylistName"] = st.Name
		}
	}

	msg := Message{
		To:      customer.Phone,
		Channel: channelFor(customer.Phone),
		Body:    RenderTemplate(tmpl.Message, values),
	}
	entry := &models.ReminderLog{
		ID:            uuid.New(),
		AppointmentID: apt.ID,
		CustomerID:    customer.ID,
		TemplateID:    tmpl.ID,
		Type:          tmpl.Type,
		Message:       msg.Body,
		Status:        models.ReminderStatusSent,
		Channel:       msg.Channel,
		SentAt:        s.now(),
	}
	sid, err := s.sender.Send(ctx, msg)
	if err != nil {
		s.logger.Warn("send message failed", zap.String("appointment", apt.ID.String()), zap.Error(err))
		entry.Status = models.ReminderStatusFailed
		entry.ErrorMessage = err.Error()
	} else {
		s.logger.Debug("message sent", zap.String("appointment", apt.ID.String()), zap.String("sid", sid))
	}

	// without a log row the next run cannot tell this reminder went out
	if err := s.store.ReminderLogs.Create(ctx, entry); err != nil {
		s.recorder.ReminderSent(entry.Channel, models.ReminderStatusFailed)
		return entry, fmt.Errorf("record reminder: %w", err)
	}
	s.recorder.ReminderSent(entry.Channel, entry.Status)
	return entry, nil
}
