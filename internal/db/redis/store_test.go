package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/expertdesk/internal/db"
)

func newStoreForTest(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	c := mock.NewClient(gomock.NewController(t))
	return &Store{client: c}, c
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

func TestPing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s, c := newStoreForTest(t)
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisString("PONG")))

		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("error", func(t *testing.T) {
		s, c := newStoreForTest(t)
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.ErrorResult(context.DeadlineExceeded))

		err := s.Ping(context.Background())
		var dbErr *db.Error
		if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
			t.Fatalf("expected *db.Error{Op: PING}, got %v", err)
		}
	})
}

func TestWaitForReady_Timeout(t *testing.T) {
	s, c := newStoreForTest(t)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGet(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		s, c := newStoreForTest(t)
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", "expertdesk:answer:abc")).
			Return(mock.Result(mock.RedisBlobString("cached answer")))

		data, err := s.Get(context.Background(), "expertdesk:answer:abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "cached answer" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("nil reply", func(t *testing.T) {
		s, c := newStoreForTest(t)
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", "missing")).Return(mock.Result(mock.RedisNil()))

		if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, db.ErrKeyNotFound) {
			t.Fatalf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("network error", func(t *testing.T) {
		s, c := newStoreForTest(t)
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", "k")).Return(mock.ErrorResult(context.DeadlineExceeded))

		_, err := s.Get(context.Background(), "k")
		if errors.Is(err, db.ErrKeyNotFound) {
			t.Fatal("network error must not look like a missing key")
		}
		var dbErr *db.Error
		if !errors.As(err, &dbErr) || dbErr.Op != db.OpGet {
			t.Fatalf("expected *db.Error{Op: GET}, got %v", err)
		}
	})
}

func TestSet(t *testing.T) {
	s, c := newStoreForTest(t)
	c.EXPECT().Do(gomock.Any(), mock.Match("SET", "k", "v")).Return(mock.Result(mock.RedisString("OK")))

	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	s, c := newStoreForTest(t)
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return len(cmd) >= 4 && cmd[0] == "SET" && cmd[1] == "k" && cmd[2] == "v" && slices.Contains(cmd, "EX")
		})).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSet_Error(t *testing.T) {
	s, c := newStoreForTest(t)
	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("READONLY")))

	err := s.Set(context.Background(), "k", []byte("v"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSet {
		t.Fatalf("expected *db.Error{Op: SET}, got %v", err)
	}
}

func TestIncrBy(t *testing.T) {
	s, c := newStoreForTest(t)
	c.EXPECT().Do(gomock.Any(), mock.Match("INCRBY", "budget", "120")).Return(mock.Result(mock.RedisInt64(120)))

	if err := s.IncrBy(context.Background(), "budget", 120); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpire(t *testing.T) {
	tests := []struct {
		name string
		nx   bool
	}{
		{"plain", false},
		{"nx", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, c := newStoreForTest(t)
			c.EXPECT().
				Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
					return cmd[0] == "EXPIRE" && cmd[1] == "budget" && cmd[2] == "172800" &&
						slices.Contains(cmd, "NX") == tc.nx
				})).
				Return(mock.Result(mock.RedisInt64(1)))

			if err := s.Expire(context.Background(), "budget", 48*time.Hour, tc.nx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
