package session

import (
	"sync"
	"testing"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

func TestLogin_Admin(t *testing.T) {
	s := New()
	if !s.Login("admin", "admin123") {
		t.Fatal("Login(admin, admin123) = false; want true")
	}
	got := s.Current()
	if got.User != "admin" {
		t.Errorf("User = %q; want %q", got.User, "admin")
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role = %q; want %q", got.Role, models.RoleAdmin)
	}
}

func TestLogin_Viewer(t *testing.T) {
	s := New()
	if !s.Login("user", "user123") {
		t.Fatal("Login(user, user123) = false; want true")
	}
	got := s.Current()
	if got.User != "user" {
		t.Errorf("User = %q; want %q", got.User, "user")
	}
	if got.Role != models.RoleViewer {
		t.Errorf("Role = %q; want %q", got.Role, models.RoleViewer)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "mallory", "admin123"},
		{"password of other user", "user", "admin123"},
		{"empty", "", ""},
		{"case differs", "Admin", "admin123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			if s.Login(tc.username, tc.password) {
				t.Fatalf("Login(%q, %q) = true; want false", tc.username, tc.password)
			}
			if got := s.Current(); got.SignedIn() || got.Role != models.RoleNone {
				t.Errorf("state = %+v; want signed out", got)
			}
		})
	}
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	s := New()
	s.Login("user", "user123")

	if s.Login("admin", "wrong") {
		t.Fatal("Login(admin, wrong) = true; want false")
	}
	got := s.Current()
	if got.User != "user" || got.Role != models.RoleViewer {
		t.Errorf("state = %+v; want user/viewer untouched", got)
	}
}

func TestLogout(t *testing.T) {
	for _, pair := range [][2]string{{"admin", "admin123"}, {"user", "user123"}} {
		s := New()
		s.Login(pair[0], pair[1])
		s.Logout()

		got := s.Current()
		if got.User != "" || got.Role != models.RoleNone {
			t.Errorf("after Logout from %s state = %+v; want empty", pair[0], got)
		}
	}

	// Logout on a signed-out session is harmless.
	s := New()
	s.Logout()
	if s.Current().SignedIn() {
		t.Error("signed-out session reports signed in after Logout")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); s.Login("admin", "admin123") }()
		go func() { defer wg.Done(); s.Logout() }()
		go func() {
			defer wg.Done()
			st := s.Current()
			if st.SignedIn() && st.Role != models.RoleAdmin {
				t.Errorf("torn state %+v", st)
			}
		}()
	}
	wg.Wait()
}
