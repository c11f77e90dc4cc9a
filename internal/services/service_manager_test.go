package services

import (
	"context"
	"testing"
	"time"

	"github.com/opencampus/academics-service/internal/validator"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	sm := NewDefaultServiceManager(nil, newMockRepository(), testLogger(), validator.New())

	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// A second Initialize is a no-op.
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}

	for name, get := range map[string]func() any{
		"user":         func() any { return sm.User() },
		"academic":     func() any { return sm.Academic() },
		"attendance":   func() any { return sm.Attendance() },
		"report":       func() any { return sm.Report() },
		"import":       func() any { return sm.Import() },
		"chatbot":      func() any { return sm.Chatbot() },
		"leave":        func() any { return sm.Leave() },
		"announcement": func() any { return sm.Announcement() },
		"notification": func() any { return sm.Notification() },
	} {
		if got := get(); got == nil {
			t.Errorf("%s service is nil after Initialize()", name)
		}
	}

	if err := sm.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	if err := sm.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := sm.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after Shutdown() should fail")
	}
}

func TestServiceManager_GetterPanicsBeforeInitialize(t *testing.T) {
	sm := NewDefaultServiceManager(nil, newMockRepository(), testLogger(), validator.New())

	defer func() {
		if recover() == nil {
			t.Error("User() before Initialize() should panic")
		}
	}()
	sm.User()
}

func TestServiceManagerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServiceManagerConfig)
		wantErr bool
	}{
		{name: "default config is valid", mutate: func(c *ServiceManagerConfig) {}},
		{
			name:    "zero timeout rejected",
			mutate:  func(c *ServiceManagerConfig) { c.DefaultTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative cache TTL rejected",
			mutate:  func(c *ServiceManagerConfig) { c.Report.CacheTTL = -time.Minute },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultServiceManagerConfig()
			tt.mutate(&config)
			if err := config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
