package auth

import (
	"strings"
	"testing"
)

// cheap parameters keep the suite fast; production defaults are exercised once below
func testHasher() *Argon2Hasher {
	return NewArgon2Hasher(Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHash_VerifiesSamePassword(t *testing.T) {
	h := testHasher()
	for _, pw := range []string{
		"short",
		"VeryLongPasswordWithManyCharactersToTestHashingPerformance123!@#",
		"P@ssw0rd!",
		"ComplexP@ssw0rd#2024",
		"ünïcødé-πάσσγουορντ",
	} {
		stored := h.Hash(pw)
		if stored == "" || len(stored) <= len(pw) {
			t.Fatalf("unexpected stored hash %q", stored)
		}
		if !h.Verify(pw, stored) {
			t.Fatalf("expected %q to verify", pw)
		}
	}
}

func TestHash_FreshSaltEveryCall(t *testing.T) {
	h := testHasher()
	a, b := h.Hash("TestPassword123!"), h.Hash("TestPassword123!")
	if a == b {
		t.Fatalf("expected different hashes for the same password")
	}
	if !h.Verify("TestPassword123!", a) || !h.Verify("TestPassword123!", b) {
		t.Fatalf("both hashes should verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h := testHasher()
	stored := h.Hash("TestPassword123!")
	if h.Verify("WrongPassword123!", stored) {
		t.Fatalf("wrong password verified")
	}
}

func TestVerify_EmptyPassword(t *testing.T) {
	h := testHasher()
	if h.Verify("", h.Hash("TestPassword123!")) {
		t.Fatalf("empty password verified")
	}
}

func TestVerify_MalformedStoredHash(t *testing.T) {
	h := testHasher()
	good := h.Hash("pw")
	parts := strings.Split(good, "$")

	cases := []string{
		"",
		"InvalidHashString",
		"$argon2id$v=19$m=8192,t=1,p=1$$",
		"$argon2i$" + strings.Join(parts[2:], "$"),
		"$argon2id$v=18$" + strings.Join(parts[3:], "$"),
		"$argon2id$v=19$m=0,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=0$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$%%%",
	}
	for _, c := range cases {
		if h.Verify("pw", c) {
			t.Fatalf("expected %q to be rejected", c)
		}
	}
}

func TestVerify_UsesEmbeddedParameters(t *testing.T) {
	stored := testHasher().Hash("pw")
	other := NewArgon2Hasher(Argon2Params{Memory: 16 * 1024, Iterations: 2, Parallelism: 1})
	if !other.Verify("pw", stored) {
		t.Fatalf("hash made under other parameters should still verify")
	}
}

func TestHash_DefaultParametersEncoding(t *testing.T) {
	if testing.Short() {
		t.Skip("default argon2 parameters are slow")
	}
	h := NewArgon2Hasher(Argon2Params{})
	stored := h.Hash("pw")
	if !strings.HasPrefix(stored, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected encoding %q", stored)
	}
	if !h.Verify("pw", stored) {
		t.Fatalf("expected verify")
	}
}
