package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geracaoeleita/roster-management/internal/auth"
	authPostgres "github.com/geracaoeleita/roster-management/internal/auth/postgres"
	notificationDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/notification"
	scheduleDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/user"
	"github.com/geracaoeleita/roster-management/internal/core/events"
	"github.com/geracaoeleita/roster-management/internal/notification"
	notificationPostgres "github.com/geracaoeleita/roster-management/internal/notification/postgres"
	"github.com/geracaoeleita/roster-management/internal/schedule"
	schedulePostgres "github.com/geracaoeleita/roster-management/internal/schedule/postgres"
	"github.com/geracaoeleita/roster-management/internal/transport/rest"
	"github.com/geracaoeleita/roster-management/internal/user"
	userPostgres "github.com/geracaoeleita/roster-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

var _ = Describe("Roster API", func() {
	var (
		router      *chi.Mux
		userService *user.Service
	)

	doJSON := func(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
		var body *bytes.Buffer
		if payload != nil {
			data, err := json.Marshal(payload)
			Expect(err).NotTo(HaveOccurred())
			body = bytes.NewBuffer(data)
		} else {
			body = bytes.NewBuffer(nil)
		}

		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(username, password string) loginResponse {
		w := doJSON(http.MethodPost, "/api/login", "", map[string]string{
			"username": username,
			"password": password,
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		var result loginResponse
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		return result
	}

	createVolunteer := func(adminToken, username string) string {
		w := doJSON(http.MethodPost, "/api/users", adminToken, map[string]string{
			"username": username,
			"name":     "Volunteer " + username,
			"email":    username + "@example.com",
			"password": "secret123",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created struct {
			ID string `json:"id"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		return created.ID
	}

	scheduleFor := func(userIDs ...string) map[string]interface{} {
		return map[string]interface{}{
			"date":     "2025-03-12",
			"day_type": "wednesday",
			"assignments": []map[string]interface{}{
				{"function_type": "portaria", "user_ids": userIDs},
			},
		}
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gormDB.AutoMigrate(
			&userDatamodel.User{},
			&scheduleDatamodel.Schedule{},
			&notificationDatamodel.Notification{},
		)).To(Succeed())

		sqlDB, err := gormDB.DB()
		Expect(err).NotTo(HaveOccurred())

		eventBus := events.NewEventBus(slogger)

		tokenGen := auth.NewJWTTokenGenerator("test-secret-at-least-32-characters-long", time.Hour)
		authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, 4)
		userService = user.NewService(userPostgres.NewUserRepository(gormDB), authService, slogger)
		scheduleService := schedule.NewService(schedulePostgres.NewScheduleRepository(gormDB), eventBus, slogger)
		notificationService := notification.NewService(notificationPostgres.NewNotificationRepository(gormDB), slogger)

		notification.NewEventHandler(notificationService, slogger).RegisterEventHandlers(eventBus)

		Expect(userService.EnsureDefaultAdmin("admin123")).To(Succeed())

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlDB,
			auth.NewHandler(authService),
			user.NewHandler(userService),
			schedule.NewHandler(scheduleService),
			notification.NewHandler(notificationService),
			slogger)
	})

	Describe("health endpoints", func() {
		It("should answer ping without auth", func() {
			w := doJSON(http.MethodGet, "/api/ping", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should report a healthy database", func() {
			w := doJSON(http.MethodGet, "/api/health", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("authentication", func() {
		It("should log in the bootstrap admin", func() {
			result := login("admin", "admin123")
			Expect(result.TokenType).To(Equal("bearer"))
			Expect(result.User.Role).To(Equal("admin"))
		})

		It("should refuse bad credentials", func() {
			w := doJSON(http.MethodPost, "/api/login", "", map[string]string{
				"username": "admin",
				"password": "wrong",
			})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should refuse protected routes without a token", func() {
			w := doJSON(http.MethodGet, "/api/schedules", "", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should resolve the caller on /me", func() {
			result := login("admin", "admin123")

			w := doJSON(http.MethodGet, "/api/me", result.AccessToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var me struct {
				Username string `json:"username"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&me)).To(Succeed())
			Expect(me.Username).To(Equal("admin"))
		})
	})

	Describe("admin gating", func() {
		var volunteerToken string

		BeforeEach(func() {
			adminToken := login("admin", "admin123").AccessToken
			createVolunteer(adminToken, "joao")
			volunteerToken = login("joao", "secret123").AccessToken
		})

		It("should hide user management from regular users", func() {
			w := doJSON(http.MethodGet, "/api/users", volunteerToken, nil)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should refuse schedule writes from regular users", func() {
			w := doJSON(http.MethodPost, "/api/schedules", volunteerToken, scheduleFor("x"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should still serve schedule reads to regular users", func() {
			w := doJSON(http.MethodGet, "/api/schedules", volunteerToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("user management", func() {
		var adminToken string

		BeforeEach(func() {
			adminToken = login("admin", "admin123").AccessToken
		})

		It("should reject duplicate usernames with 400", func() {
			createVolunteer(adminToken, "joao")

			w := doJSON(http.MethodPost, "/api/users", adminToken, map[string]string{
				"username": "joao",
				"name":     "Someone Else",
				"email":    "else@example.com",
				"password": "secret123",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should never expose password hashes", func() {
			createVolunteer(adminToken, "joao")

			w := doJSON(http.MethodGet, "/api/users", adminToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).NotTo(ContainSubstring("password"))
			Expect(w.Body.String()).NotTo(ContainSubstring("hash"))
		})

		It("should delete users and free the username", func() {
			id := createVolunteer(adminToken, "joao")

			w := doJSON(http.MethodDelete, "/api/users/"+id, adminToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			createVolunteer(adminToken, "joao")
		})
	})

	Describe("schedule lifecycle", func() {
		var (
			adminToken     string
			volunteerToken string
			volunteerID    string
		)

		BeforeEach(func() {
			adminToken = login("admin", "admin123").AccessToken
			volunteerID = createVolunteer(adminToken, "joao")
			volunteerToken = login("joao", "secret123").AccessToken
		})

		createSchedule := func(userIDs ...string) string {
			w := doJSON(http.MethodPost, "/api/schedules", adminToken, scheduleFor(userIDs...))
			Expect(w.Code).To(Equal(http.StatusCreated))

			var created struct {
				ID string `json:"id"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			return created.ID
		}

		listNotifications := func(token string) []map[string]interface{} {
			w := doJSON(http.MethodGet, "/api/notifications", token, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list []map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			return list
		}

		It("should notify assigned users on creation", func() {
			createSchedule(volunteerID)

			list := listNotifications(volunteerToken)
			Expect(list).To(HaveLen(1))
			Expect(list[0]["message"]).To(Equal("You have been assigned to portaria on 2025-03-12"))
			Expect(list[0]["read"]).To(BeFalse())
		})

		It("should record an accepted response", func() {
			scheduleID := createSchedule(volunteerID)

			w := doJSON(http.MethodPost, "/api/schedule-response", volunteerToken, map[string]string{
				"schedule_id":   scheduleID,
				"function_type": "portaria",
				"status":        "accepted",
			})
			Expect(w.Code).To(Equal(http.StatusOK))

			w = doJSON(http.MethodGet, "/api/schedules", volunteerToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var schedules []struct {
				Assignments []struct {
					Responses map[string]struct {
						Status string `json:"status"`
					} `json:"responses"`
				} `json:"assignments"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&schedules)).To(Succeed())
			Expect(schedules).To(HaveLen(1))
			Expect(schedules[0].Assignments[0].Responses[volunteerID].Status).To(Equal("accepted"))
		})

		It("should refuse responses from users not assigned", func() {
			createVolunteer(adminToken, "maria")
			otherToken := login("maria", "secret123").AccessToken
			scheduleID := createSchedule(volunteerID)

			w := doJSON(http.MethodPost, "/api/schedule-response", otherToken, map[string]string{
				"schedule_id":   scheduleID,
				"function_type": "portaria",
				"status":        "accepted",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should regenerate notifications on update", func() {
			scheduleID := createSchedule(volunteerID)

			first := listNotifications(volunteerToken)
			w := doJSON(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", first[0]["id"]), volunteerToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			w = doJSON(http.MethodPut, "/api/schedules/"+scheduleID, adminToken, scheduleFor(volunteerID))
			Expect(w.Code).To(Equal(http.StatusOK))

			regenerated := listNotifications(volunteerToken)
			Expect(regenerated).To(HaveLen(1))
			Expect(regenerated[0]["id"]).NotTo(Equal(first[0]["id"]))
			Expect(regenerated[0]["read"]).To(BeFalse())
			Expect(regenerated[0]["message"]).To(HaveSuffix("(schedule updated)"))
		})

		It("should drop notifications for unassigned users on update", func() {
			scheduleID := createSchedule(volunteerID)
			otherID := createVolunteer(adminToken, "maria")
			otherToken := login("maria", "secret123").AccessToken

			w := doJSON(http.MethodPut, "/api/schedules/"+scheduleID, adminToken, scheduleFor(otherID))
			Expect(w.Code).To(Equal(http.StatusOK))

			Expect(listNotifications(volunteerToken)).To(BeEmpty())
			Expect(listNotifications(otherToken)).To(HaveLen(1))
		})

		It("should soft-delete but keep accepting responses", func() {
			scheduleID := createSchedule(volunteerID)

			w := doJSON(http.MethodDelete, "/api/schedules/"+scheduleID, adminToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			w = doJSON(http.MethodGet, "/api/schedules", adminToken, nil)
			var schedules []map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&schedules)).To(Succeed())
			Expect(schedules).To(BeEmpty())

			w = doJSON(http.MethodPost, "/api/schedule-response", volunteerToken, map[string]string{
				"schedule_id":   scheduleID,
				"function_type": "portaria",
				"status":        "declined",
			})
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should keep notifications when their schedule is soft-deleted", func() {
			scheduleID := createSchedule(volunteerID)

			w := doJSON(http.MethodDelete, "/api/schedules/"+scheduleID, adminToken, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			Expect(listNotifications(volunteerToken)).To(HaveLen(1))
		})

		It("should hide foreign notifications from mark-read", func() {
			createSchedule(volunteerID)
			first := listNotifications(volunteerToken)

			otherToken := func() string {
				createVolunteer(adminToken, "maria")
				return login("maria", "secret123").AccessToken
			}()

			w := doJSON(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", first[0]["id"]), otherToken, nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject invalid schedule payloads", func() {
			payload := scheduleFor(volunteerID)
			payload["day_type"] = "sunday"
			w := doJSON(http.MethodPost, "/api/schedules", adminToken, payload)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
