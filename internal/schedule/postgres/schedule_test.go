package postgres_test

import (
	"testing"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	scheduleDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/schedule"
	"github.com/geracaoeleita/roster-management/internal/schedule"
	schedulePostgres "github.com/geracaoeleita/roster-management/internal/schedule/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSchedulePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Postgres Suite")
}

var _ = Describe("Schedule Repository", func() {
	var repo schedule.Repository

	newSchedule := func(id, date string) *schedule.Schedule {
		return &schedule.Schedule{
			ID:      id,
			Date:    date,
			DayType: schedule.DayWednesday,
			Assignments: []schedule.Assignment{
				{
					FunctionType: schedule.FunctionPortaria,
					UserIDs:      []string{"user-1", "user-2"},
					Responses:    map[string]schedule.Response{},
				},
			},
			CreatedBy: "admin-1",
			Active:    true,
			Version:   1,
			CreatedAt: time.Now().UTC(),
		}
	}

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&scheduleDatamodel.Schedule{})).To(Succeed())

		repo = schedulePostgres.NewScheduleRepository(db)
	})

	Describe("Create and GetByID", func() {
		It("should round-trip the embedded assignments", func() {
			Expect(repo.Create(newSchedule("s-1", "2025-03-12"))).To(Succeed())

			found, err := repo.GetByID("s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.DayType).To(Equal(schedule.DayWednesday))
			Expect(found.Assignments).To(HaveLen(1))
			Expect(found.Assignments[0].UserIDs).To(ConsistOf("user-1", "user-2"))
			Expect(found.Version).To(Equal(int64(1)))
		})

		It("should return not found for unknown ids", func() {
			_, err := repo.GetByID("missing")
			Expect(err).To(MatchError(internal.ErrScheduleNotFound))
		})
	})

	Describe("GetAllActive", func() {
		It("should order by date descending and skip soft-deleted rows", func() {
			Expect(repo.Create(newSchedule("s-1", "2025-03-12"))).To(Succeed())
			Expect(repo.Create(newSchedule("s-2", "2025-03-14"))).To(Succeed())
			Expect(repo.Create(newSchedule("s-3", "2025-03-15"))).To(Succeed())
			Expect(repo.SoftDelete("s-3")).To(Succeed())

			schedules, err := repo.GetAllActive()
			Expect(err).NotTo(HaveOccurred())
			Expect(schedules).To(HaveLen(2))
			Expect(schedules[0].ID).To(Equal("s-2"))
			Expect(schedules[1].ID).To(Equal("s-1"))
		})
	})

	Describe("SoftDelete", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("s-1", "2025-03-12"))).To(Succeed())
		})

		It("should keep the row resolvable by id", func() {
			Expect(repo.SoftDelete("s-1")).To(Succeed())

			found, err := repo.GetByID("s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Active).To(BeFalse())

			_, err = repo.GetActiveByID("s-1")
			Expect(err).To(MatchError(internal.ErrScheduleNotFound))
		})

		It("should return not found when already deleted", func() {
			Expect(repo.SoftDelete("s-1")).To(Succeed())
			Expect(repo.SoftDelete("s-1")).To(MatchError(internal.ErrScheduleNotFound))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("s-1", "2025-03-12"))).To(Succeed())
		})

		It("should replace the row and bump the version", func() {
			updated := newSchedule("s-1", "2025-03-14")
			updated.DayType = schedule.DayFriday
			Expect(repo.Update(updated)).To(Succeed())

			found, err := repo.GetByID("s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Date).To(Equal("2025-03-14"))
			Expect(found.DayType).To(Equal(schedule.DayFriday))
			Expect(found.Version).To(Equal(int64(2)))
		})

		It("should refuse updates to soft-deleted schedules", func() {
			Expect(repo.SoftDelete("s-1")).To(Succeed())
			Expect(repo.Update(newSchedule("s-1", "2025-03-14"))).To(MatchError(internal.ErrScheduleNotFound))
		})
	})

	Describe("UpdateAssignments", func() {
		BeforeEach(func() {
			Expect(repo.Create(newSchedule("s-1", "2025-03-12"))).To(Succeed())
		})

		newAssignments := func() []schedule.Assignment {
			return []schedule.Assignment{
				{
					FunctionType: schedule.FunctionPortaria,
					UserIDs:      []string{"user-1", "user-2"},
					Responses: map[string]schedule.Response{
						"user-1": {Status: schedule.StatusAccepted, Timestamp: time.Now().UTC()},
					},
				},
			}
		}

		It("should write when the version matches", func() {
			Expect(repo.UpdateAssignments("s-1", newAssignments(), 1)).To(Succeed())

			found, err := repo.GetByID("s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Assignments[0].Responses).To(HaveKey("user-1"))
			Expect(found.Version).To(Equal(int64(2)))
		})

		It("should fail with a version conflict on a stale read", func() {
			Expect(repo.UpdateAssignments("s-1", newAssignments(), 1)).To(Succeed())

			err := repo.UpdateAssignments("s-1", newAssignments(), 1)
			Expect(err).To(MatchError(schedule.ErrVersionConflict))
		})

		It("should still write to soft-deleted schedules", func() {
			Expect(repo.SoftDelete("s-1")).To(Succeed())
			Expect(repo.UpdateAssignments("s-1", newAssignments(), 1)).To(Succeed())
		})
	})
})
