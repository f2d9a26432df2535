package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitfantasy/repairtrack/internal/middleware"
	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret = "repairtrack-test-secret"
	Namespace = "repairtrack_test"
)

// TestEnv holds test environment resources
type TestEnv struct {
	Store  *repository.Store
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a file-backed sqlite database with foreign keys enforced
// and the repair tables migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := OpenTestDB(t)
	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}
	return db
}

// OpenTestDB opens an empty sqlite database without migrating any tables.
// Each test gets its own file under t.TempDir, removed after the test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", filepath.Join(t.TempDir(), "repairtrack.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRemoteStore returns a store backed by a fresh sqlite database
func SetupRemoteStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewRemoteStore(SetupTestDB(t), zaptest.NewLogger(t))
}

// SetupLocalStore returns a store backed by an in-memory KV
func SetupLocalStore(t *testing.T) (*repository.Store, *repository.MemoryKV) {
	t.Helper()
	kv := repository.NewMemoryKV()
	return repository.NewLocalStore(kv, Namespace, zaptest.NewLogger(t)), kv
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret, nil))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(username string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"name": username,
		"mode": repository.BackendLocal,
		"iss":  "repairtrack",
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
		"jti":  uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for the default test operator
func DefaultTestToken() string {
	return GenerateTestToken("operator")
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedOrganization stores an organization directly through the store
func SeedOrganization(t *testing.T, store *repository.Store, name string) *entity.Organization {
	t.Helper()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := store.Organizations.Add(context.Background(), org); err != nil {
		t.Fatalf("Failed to seed organization: %v", err)
	}
	return org
}

// SeedCustomer stores a customer belonging to orgID
func SeedCustomer(t *testing.T, store *repository.Store, orgID, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{
		ID:             uuid.New().String(),
		FullName:       name,
		OrganizationID: orgID,
		CreatedAt:      time.Now(),
	}
	if err := store.Customers.Add(context.Background(), customer); err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

// SeedTicket stores a repair ticket in Received status
func SeedTicket(t *testing.T, store *repository.Store, customerID, deviceType, serial, receiveDate string) *entity.RepairTicket {
	t.Helper()
	now := time.Now()
	ticket := &entity.RepairTicket{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		DeviceType:   deviceType,
		SerialNumber: serial,
		ReceiveDate:  receiveDate,
		Status:       entity.RepairStatusReceived,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Tickets.Add(context.Background(), ticket); err != nil {
		t.Fatalf("Failed to seed ticket: %v", err)
	}
	return ticket
}

// SeedWarranty stores a warranty ticket in Sent status
func SeedWarranty(t *testing.T, store *repository.Store, orgID, deviceType, serial, sentDate string) *entity.WarrantyTicket {
	t.Helper()
	now := time.Now()
	warranty := &entity.WarrantyTicket{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		DeviceType:     deviceType,
		SerialNumber:   serial,
		SentDate:       sentDate,
		Status:         entity.WarrantyStatusSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.Warranties.Add(context.Background(), warranty); err != nil {
		t.Fatalf("Failed to seed warranty: %v", err)
	}
	return warranty
}
