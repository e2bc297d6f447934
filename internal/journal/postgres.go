package journal

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
)

type SeatEvent struct {
	ID        uint      `gorm:"primaryKey"`
	TableID   string    `gorm:"index;not null"`
	PlayerID  string    `gorm:"index"`
	Type      string    `gorm:"not null"`
	Seat      string
	FromSeat  string
	CreatedAt time.Time
}

func (SeatEvent) TableName() string { return "seat_events" }

const defaultQueueSize = 256

// Postgres writes events from a single background goroutine so a slow
// database never stalls a table.
type Postgres struct {
	db     *gorm.DB
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan []SeatEvent
	done   chan struct{}
}

// Open connects to dsn and migrates the seat_events table.
func Open(dsn string, logger *zap.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if err := db.AutoMigrate(&SeatEvent{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return NewWithDB(db, logger, defaultQueueSize), nil
}

// NewWithDB wraps an existing gorm handle without migrating it.
func NewWithDB(db *gorm.DB, logger *zap.Logger, queueSize int) *Postgres {
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}
	p := &Postgres{
		db:     db,
		logger: logger.Named("journal"),
		queue:  make(chan []SeatEvent, queueSize),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Postgres) Record(events []engine.Event) {
	if len(events) == 0 {
		return
	}
	rows := toRows(events, time.Now())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- rows:
	default:
		p.logger.Warn("journal queue full - events dropped", zap.Int("events", len(rows)))
	}
}

func (p *Postgres) loop() {
	defer close(p.done)
	for rows := range p.queue {
		if err := p.db.Create(&rows).Error; err != nil {
			p.logger.Error("write seat events", zap.Error(err), zap.Int("events", len(rows)))
		}
	}
}

// Close flushes queued events and closes the database.
func (p *Postgres) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done

	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("journal db handle: %w", err)
	}
	return sqlDB.Close()
}

func toRows(events []engine.Event, at time.Time) []SeatEvent {
	rows := make([]SeatEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, SeatEvent{
			TableID:   e.TableID,
			PlayerID:  e.PlayerID,
			Type:      string(e.Type),
			Seat:      string(e.Seat),
			FromSeat:  string(e.FromSeat),
			CreatedAt: at,
		})
	}
	return rows
}
