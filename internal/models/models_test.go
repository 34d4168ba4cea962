package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Validate(t *testing.T) {
	ok := Service{ID: 1, Name: "Community Care Services", AverageRating: 4.5, ReviewCount: 12, Registered: RegisteredYes}

	tests := []struct {
		name    string
		mutate  func(s *Service)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *Service) {}},
		{name: "unspecified status", mutate: func(s *Service) { s.Registered = RegisteredUnspecified }},
		{name: "zero id", mutate: func(s *Service) { s.ID = 0 }, wantErr: true},
		{name: "rating above five", mutate: func(s *Service) { s.AverageRating = 5.1 }, wantErr: true},
		{name: "negative rating", mutate: func(s *Service) { s.AverageRating = -1 }, wantErr: true},
		{name: "negative reviews", mutate: func(s *Service) { s.ReviewCount = -3 }, wantErr: true},
		{name: "unknown status", mutate: func(s *Service) { s.Registered = "Maybe" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_DecodesWebClientLayout(t *testing.T) {
	raw := `{"id":1712345678901,"name":"Allied Health Professionals","location":"Melbourne",
		"category":["Allied Health Professional","Occupational Therapist"],
		"registered":"Yes","averageRating":4.8,"reviewCount":8,
		"createdAt":"2025-03-01T10:20:30.123Z","createdBy":null}`

	var s Service
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, int64(1712345678901), s.ID)
	assert.True(t, s.HasCategory("Occupational Therapist"))
	assert.False(t, s.HasCategory("Occupational"))
	assert.Nil(t, s.CreatedBy)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 123000000, time.UTC), s.CreatedAt)
}

func TestService_LenientCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "missing", raw: `{"id":1}`},
		{name: "null", raw: `{"id":1,"createdAt":null}`},
		{name: "empty", raw: `{"id":1,"createdAt":""}`},
		{name: "garbage", raw: `{"id":1,"createdAt":"soon"}`},
		{name: "wrong type", raw: `{"id":1,"createdAt":true}`},
		{name: "date only", raw: `{"id":1,"createdAt":"2025-03-01"}`, want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "no zone", raw: `{"id":1,"createdAt":"2025-03-01T09:30:00"}`, want: time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)},
		{name: "offset", raw: `{"id":1,"createdAt":"2025-03-01T09:30:00+10:00"}`, want: time.Date(2025, 2, 28, 23, 30, 0, 0, time.UTC)},
		{name: "epoch millis", raw: `{"id":1,"createdAt":1740787200000}`, want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Service
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, int64(1), s.ID)
			assert.True(t, tt.want.Equal(s.CreatedAt), "got %v, want %v", s.CreatedAt, tt.want)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestService_CreatedAtRoundTrip(t *testing.T) {
	in := Service{ID: 7, Name: "Coastal Therapy", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Service
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.Name, out.Name)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestService_MalformedStillFails(t *testing.T) {
	var s Service
	require.Error(t, json.Unmarshal([]byte(`{"id":"one"}`), &s))
}

func TestUser_SessionStripsHash(t *testing.T) {
	u := User{ID: 1, Name: "Test User", Email: "test@example.com", PasswordHash: "x"}
	require.NoError(t, u.Validate())

	b, err := json.Marshal(u.Session())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "passwordHash")
	require.NoError(t, u.Session().Validate())

	require.ErrorIs(t, User{ID: 1, Email: "a@b.c"}.Validate(), ErrInvalidRecord)
	require.ErrorIs(t, Session{}.Validate(), ErrInvalidRecord)
}

func TestNextID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	assert.Equal(t, int64(1_700_000_000_000), NextID(now, 2))
	assert.Equal(t, int64(1_700_000_000_001), NextID(now, 1_700_000_000_000))
	assert.Equal(t, int64(1_800_000_000_001), NextID(now, 1_800_000_000_000))
}
