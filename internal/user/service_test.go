package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/geracaoeleita/roster-management/internal"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"github.com/geracaoeleita/roster-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users      map[string]*coreuser.User
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users: make(map[string]*coreuser.User),
	}
}

func (m *MockRepository) GetAll() ([]*coreuser.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	result := make([]*coreuser.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockRepository) GetByID(id string) (*coreuser.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, exists := m.users[id]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *MockRepository) GetByUsername(username string) (*coreuser.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *MockRepository) Create(u *coreuser.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	if _, exists := m.users[id]; !exists {
		return internal.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// fakeHasher avoids bcrypt cost in tests that only care about wiring.
type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, fakeHasher{}, logger)
	})

	Describe("Create", func() {
		validDTO := func() user.CreateUserDTO {
			return user.CreateUserDTO{
				Username: "joao",
				Name:     "Joao Silva",
				Email:    "joao@example.com",
				Password: "secret123",
			}
		}

		It("should create an active user with a generated id", func() {
			created, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Active).To(BeTrue())
			Expect(created.PasswordHash).To(Equal("hashed:secret123"))
		})

		It("should default the role to user", func() {
			created, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(coreuser.RoleUser))
		})

		It("should accept an explicit admin role", func() {
			dto := validDTO()
			dto.Role = "admin"
			created, err := service.Create(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(coreuser.RoleAdmin))
		})

		It("should reject roles outside the closed set", func() {
			dto := validDTO()
			dto.Role = "moderator"
			_, err := service.Create(dto)
			Expect(err).To(HaveOccurred())
		})

		Context("when the username is already taken", func() {
			BeforeEach(func() {
				_, err := service.Create(validDTO())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the username taken error", func() {
				_, err := service.Create(validDTO())
				Expect(err).To(MatchError(internal.ErrUsernameTaken))
			})

			It("should allow re-registration after the user is deleted", func() {
				existing, err := service.List()
				Expect(err).NotTo(HaveOccurred())
				Expect(service.Delete(existing[0].ID)).To(Succeed())

				recreated, err := service.Create(validDTO())
				Expect(err).NotTo(HaveOccurred())
				Expect(recreated.ID).NotTo(Equal(existing[0].ID))
			})
		})

		Context("with missing fields", func() {
			It("should require a password", func() {
				dto := validDTO()
				dto.Password = ""
				_, err := service.Create(dto)
				Expect(err).To(HaveOccurred())
			})

			It("should require a username", func() {
				dto := validDTO()
				dto.Username = ""
				_, err := service.Create(dto)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		It("should return not found for unknown ids", func() {
			err := service.Delete("missing")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})

		It("should remove the user", func() {
			created, err := service.Create(user.CreateUserDTO{
				Username: "maria", Name: "Maria", Email: "maria@example.com", Password: "pw",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(created.ID)).To(Succeed())

			_, err = service.GetByID(created.ID)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("EnsureDefaultAdmin", func() {
		It("should create the bootstrap admin when absent", func() {
			Expect(service.EnsureDefaultAdmin("admin123")).To(Succeed())

			admin, err := mockRepo.GetByUsername("admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(admin.Role).To(Equal(coreuser.RoleAdmin))
			Expect(admin.Name).To(Equal("Administrador"))
			Expect(admin.Active).To(BeTrue())
		})

		It("should be idempotent", func() {
			Expect(service.EnsureDefaultAdmin("admin123")).To(Succeed())
			first, err := mockRepo.GetByUsername("admin")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.EnsureDefaultAdmin("other-password")).To(Succeed())
			second, err := mockRepo.GetByUsername("admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.PasswordHash).To(Equal(first.PasswordHash))
		})
	})

	Describe("List", func() {
		It("should wrap repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("database down"))
			users, err := service.List()
			Expect(err).To(HaveOccurred())
			Expect(users).To(BeNil())
		})
	})
})
