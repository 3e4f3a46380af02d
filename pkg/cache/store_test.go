package cache

import (
	"reflect"
	"testing"
	"time"
)

func TestStore_GetSet(t *testing.T) {
	s := NewStore(DefaultTTL)

	if _, ok := s.Get(NewKey(KindVRF, "f1", "blue")); ok {
		t.Fatal("Store.Get() on an empty store reported a hit")
	}

	s.Set(NewKey(KindVRF, "f1", "blue"), "value1", DefaultTTL)

	got, ok := s.Get(NewKey(KindVRF, "f1", "blue"))
	if !ok || got != "value1" {
		t.Errorf("Store.Get() = %v, %v, want value1, true", got, ok)
	}

	// a second read with no intervening writes observes the same value
	got, ok = s.Get(NewKey(KindVRF, "f1", "blue"))
	if !ok || got != "value1" {
		t.Errorf("Store.Get() second read = %v, %v, want value1, true", got, ok)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.Set(NewKey(KindVRF, "f1", "short"), "v", 20*time.Millisecond)
	s.Set(NewKey(KindVRF, "f1", "forever"), "v", NeverExpire)

	if _, ok := s.Get(NewKey(KindVRF, "f1", "short")); !ok {
		t.Error("Store.Get() missed an entry before its TTL elapsed")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := s.Get(NewKey(KindVRF, "f1", "short")); ok {
		t.Error("Store.Get() returned an expired entry")
	}
	if _, ok := s.Get(NewKey(KindVRF, "f1", "forever")); !ok {
		t.Error("Store.Get() evicted an entry with no TTL")
	}
}

func TestStore_DefaultTTL(t *testing.T) {
	s := NewStore(20 * time.Millisecond)

	s.Set(NewKey(KindVRF, "f1", "blue"), "v", DefaultTTL)
	time.Sleep(40 * time.Millisecond)

	if _, ok := s.Get(NewKey(KindVRF, "f1", "blue")); ok {
		t.Error("Store.Get() returned an entry past the store default TTL")
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.Set(NewKey(KindVRF, "f1", "blue"), "v", DefaultTTL)
	s.Delete(NewKey(KindVRF, "f1", "blue"))
	// deleting an absent key is a no-op
	s.Delete(NewKey(KindVRF, "f1", "blue"))

	if _, ok := s.Get(NewKey(KindVRF, "f1", "blue")); ok {
		t.Error("Store.Get() returned a deleted entry")
	}
}

func TestStore_GetBulk(t *testing.T) {
	type args struct {
		fabric string
		kind   Kind
	}
	tests := []struct {
		name string
		seed func(s *Store)
		args args
		want map[string]interface{}
	}{
		{
			name: "Returns every live entry for the fabric and kind",
			seed: func(s *Store) {
				s.SetBulk("f1", KindVRF, map[string]interface{}{"blue": 1, "red": 2}, DefaultTTL)
				s.Set(NewKey(KindVRFAttachment, "f1", "blue"), 3, DefaultTTL)
			},
			args: args{fabric: "f1", kind: KindVRF},
			want: map[string]interface{}{"blue": 1, "red": 2},
		},
		{
			name: "Fabrics are isolated",
			seed: func(s *Store) {
				s.SetBulk("f1", KindVRF, map[string]interface{}{"blue": 1}, DefaultTTL)
			},
			args: args{fabric: "f2", kind: KindVRF},
			want: map[string]interface{}{},
		},
		{
			name: "Kinds are isolated",
			seed: func(s *Store) {
				s.SetBulk("f1", KindVRFAttachment, map[string]interface{}{"blue": 1}, DefaultTTL)
			},
			args: args{fabric: "f1", kind: KindVRF},
			want: map[string]interface{}{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultTTL)
			tt.seed(s)
			if got := s.GetBulk(tt.args.fabric, tt.args.kind); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Store.GetBulk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_HasCompleteSet(t *testing.T) {
	s := NewStore(DefaultTTL)

	// individual sets never mark the bulk set complete
	s.Set(NewKey(KindVRF, "f1", "blue"), 1, DefaultTTL)
	if s.HasCompleteSet("f1", KindVRF) {
		t.Error("Store.HasCompleteSet() = true after an individual Set")
	}

	s.SetBulk("f1", KindVRF, map[string]interface{}{"blue": 1, "red": 2}, DefaultTTL)
	if !s.HasCompleteSet("f1", KindVRF) {
		t.Error("Store.HasCompleteSet() = false after SetBulk")
	}

	// deleting a member keeps the set complete
	s.Delete(NewKey(KindVRF, "f1", "red"))
	if !s.HasCompleteSet("f1", KindVRF) {
		t.Error("Store.HasCompleteSet() = false after deleting a member")
	}

	s.InvalidateFabric("f1", KindVRF)
	if s.HasCompleteSet("f1", KindVRF) {
		t.Error("Store.HasCompleteSet() = true after InvalidateFabric")
	}
}

func TestStore_BulkMarkerExpiry(t *testing.T) {
	s := NewStore(DefaultTTL)

	s.SetBulk("f1", KindVRF, map[string]interface{}{"blue": 1}, 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if s.HasCompleteSet("f1", KindVRF) {
		t.Error("Store.HasCompleteSet() = true after the bulk TTL elapsed")
	}
	if got := s.GetBulk("f1", KindVRF); len(got) != 0 {
		t.Errorf("Store.GetBulk() returned expired entries: %v", got)
	}
}

func TestStore_InvalidateFabric(t *testing.T) {
	type args struct {
		fabric string
		kinds  []Kind
	}
	tests := []struct {
		name string
		args args
		want map[Key]bool
	}{
		{
			name: "Removes every kind for the fabric",
			args: args{fabric: "f1"},
			want: map[Key]bool{
				NewKey(KindVRF, "f1", "blue"):           false,
				NewKey(KindVRFAttachment, "f1", "blue"): false,
				NewKey(KindVRF, "f2", "blue"):           true,
			},
		},
		{
			name: "Narrows to one kind",
			args: args{fabric: "f1", kinds: []Kind{KindVRF}},
			want: map[Key]bool{
				NewKey(KindVRF, "f1", "blue"):           false,
				NewKey(KindVRFAttachment, "f1", "blue"): true,
				NewKey(KindVRF, "f2", "blue"):           true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultTTL)
			s.Set(NewKey(KindVRF, "f1", "blue"), 1, DefaultTTL)
			s.Set(NewKey(KindVRFAttachment, "f1", "blue"), 2, DefaultTTL)
			s.Set(NewKey(KindVRF, "f2", "blue"), 3, DefaultTTL)

			s.InvalidateFabric(tt.args.fabric, tt.args.kinds...)

			for key, wantPresent := range tt.want {
				if _, ok := s.Get(key); ok != wantPresent {
					t.Errorf("Store.Get(%s) present = %v, want %v", key, ok, wantPresent)
				}
			}
		})
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(DefaultTTL)
	s.Set(NewKey(KindVRF, "f1", "blue"), 1, DefaultTTL)
	s.Set(NewKey(KindVRF, "f2", "red"), 2, DefaultTTL)

	s.Clear()

	if got := len(s.Items()); got != 0 {
		t.Errorf("Store.Items() after Clear() has %d entries, want 0", got)
	}
}
