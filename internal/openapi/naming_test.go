package openapi

import "testing"

var normalizeCases = []struct {
	raw  string
	want string
}{
	{"User", "User"},
	{"  User  ", "User"},
	{"Promise<User>", "User"},
	{"Promise<Paginated<User>>", "Paginated_User_"},
	{"Promise<Promise<User>>", "User"},
	{"Paginated<User>", "Paginated_User_"},
	{"Record<string, number>", "Record_string.number_"},
	{"Models.User", "User"},
	{"Api.Models.User", "User"},
	{`import("./models").User`, "User"},
	{`import("./models").Api.User`, "User"},
	{"Paginated<Models.User>", "Paginated_User_"},
	{"A | B", "A-or-B"},
	{"A & B", "A-and-B"},
	{"string[]", "string-Array"},
	{`User["id"]`, "User-at-id"},
	{"{ a: string; b?: number }", "_a-string--b..-number_"},
	{`Pick<User, "id" | "name">`, "Pick_User.id-or-name_"},
	{"Map<string, User[]>", "Map_string.User-Array_"},
	{"[string, number]", "_string.number_"},
	{"Café", "Caf%C3%A9"},
	{"Cafe\u0301", "Caf%C3%A9"},
	{"$Internal", "%24Internal"},
	{"A,B", "B"},
	{"A, B", "B"},
	{"Key,Value.Inner", "Inner"},
	{"A,B | C", "B-or-C"},
	{"A,B<C>", "A.B_C_"},
}

func TestNormalizeName(t *testing.T) {
	for _, tc := range normalizeCases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := NormalizeName(tc.raw); got != tc.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, tc := range normalizeCases {
		once := NormalizeName(tc.raw)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not stable for %q: %q then %q", tc.raw, once, twice)
		}
	}
}

func TestNormalizeName_WrapperMustEncloseWholeName(t *testing.T) {
	// The wrapper's closing bracket is not the last one, so nothing is unwrapped.
	got := NormalizeName("Promise<A> | Promise<B>")
	want := "Promise_A_-or-Promise_B_"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNameNormalizer_CustomAsyncWrapper(t *testing.T) {
	n := NameNormalizer{AsyncWrapper: "Observable"}
	if got := n.Normalize("Observable<User>"); got != "User" {
		t.Errorf("got %q, want User", got)
	}
	if got := n.Normalize("Promise<User>"); got != "Promise_User_" {
		t.Errorf("got %q, want Promise_User_", got)
	}
}

func TestNameNormalizer_NoAsyncWrapper(t *testing.T) {
	var n NameNormalizer
	if got := n.Normalize("Promise<User>"); got != "Promise_User_" {
		t.Errorf("got %q, want Promise_User_", got)
	}
}

func TestNormalizeName_KeepsExistingEscapes(t *testing.T) {
	if got := NormalizeName("Caf%C3%A9"); got != "Caf%C3%A9" {
		t.Errorf("got %q", got)
	}
	// A lone percent sign is not an escape and is encoded.
	if got := NormalizeName("50%"); got != "50%25" {
		t.Errorf("got %q, want 50%%25", got)
	}
}
