package memory

import (
	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	user     *userRepository
	schedule *scheduleRepository
	booking  *bookingRepository
	syncRun  *syncRunRepository
	audit    *auditRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:     newUserRepository(),
		schedule: newScheduleRepository(),
		booking:  newBookingRepository(),
		syncRun:  newSyncRunRepository(),
		audit:    newAuditRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Schedule() interfaces.ScheduleRepository {
	return m.schedule
}

func (m *Memory) Booking() interfaces.BookingRepository {
	return m.booking
}

func (m *Memory) SyncRun() interfaces.SyncRunRepository {
	return m.syncRun
}

func (m *Memory) Audit() interfaces.AuditRepository {
	return m.audit
}

func (m *Memory) Close() error {
	return nil
}
