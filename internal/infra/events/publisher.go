package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Типы событий
const (
	TypeAppointmentBooked   = "appointment.booked"
	TypeAppointmentCanceled = "appointment.canceled"
)

// Config настройки публикации событий
type Config struct {
	Brokers       []string
	BookedTopic   string
	CanceledTopic string
	BatchTimeout  time.Duration
}

// AppointmentEvent событие о записи. Время суток в UTC, как в хранилище.
type AppointmentEvent struct {
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	TenantID      string    `json:"tenantId"`
	AppointmentID int64     `json:"appointmentId"`
	EmployeeID    int64     `json:"employeeId"`
	ServiceID     int64     `json:"serviceId"`
	Date          string    `json:"date"`
	TimeStart     string    `json:"timeStart"`
	TimeEnd       string    `json:"timeEnd"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher публикует события о записях в Kafka.
// Без брокеров в конфигурации публикация отключена.
type Publisher struct {
	writer messageWriter
	cfg    Config
	logger Logger
	now    func() time.Time
}

// NewPublisher создает публикатор с kafka.Writer
func NewPublisher(cfg Config, logger Logger) *Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Warn("events: publisher disabled (no kafka brokers configured)")
		return newPublisher(nil, cfg, logger)
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
	})
	return newPublisher(writer, cfg, logger)
}

func newPublisher(writer messageWriter, cfg Config, logger Logger) *Publisher {
	if cfg.BookedTopic == "" {
		cfg.BookedTopic = TypeAppointmentBooked
	}
	if cfg.CanceledTopic == "" {
		cfg.CanceledTopic = TypeAppointmentCanceled
	}
	return &Publisher{
		writer: writer,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Enabled публикация включена
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// PublishAppointmentBooked публикует событие о новой записи
func (p *Publisher) PublishAppointmentBooked(ctx context.Context, tenantID string, appt *domain.Appointment) error {
	return p.publish(ctx, p.cfg.BookedTopic, TypeAppointmentBooked, tenantID, appt)
}

// PublishAppointmentCanceled публикует событие об отмене записи
func (p *Publisher) PublishAppointmentCanceled(ctx context.Context, tenantID string, appt *domain.Appointment) error {
	return p.publish(ctx, p.cfg.CanceledTopic, TypeAppointmentCanceled, tenantID, appt)
}

// Close закрывает writer
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, tenantID string, appt *domain.Appointment) error {
	if p.writer == nil {
		return nil
	}

	event := AppointmentEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		TenantID:      tenantID,
		AppointmentID: appt.ID,
		EmployeeID:    appt.EmployeeID,
		ServiceID:     appt.ServiceID,
		Date:          appt.Date.Format(domain.DateFormat),
		TimeStart:     appt.TimeStart.String(),
		TimeEnd:       appt.TimeEnd.String(),
		Status:        string(appt.Status),
		OccurredAt:    p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	// Ключ по сотруднику сохраняет порядок событий одного сотрудника в партиции
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(tenantID + ":" + strconv.FormatInt(appt.EmployeeID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "tenant_id", Value: []byte(tenantID)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s appointment=%d: %v", ErrPublish, topic, appt.ID, err)
	}

	p.logger.Info("events: published %s appointment=%d tenant=%s", eventType, appt.ID, tenantID)
	return nil
}
