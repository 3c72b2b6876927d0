package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/model"
)

func TestSignAndParse(t *testing.T) {
	parser := NewParser("test-secret")
	member := model.Member{
		ID:   uuid.New(),
		Name: "Priya",
		Role: model.RoleSales,
	}

	token, err := parser.Sign(member)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	principal, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if principal.UserID != member.ID {
		t.Errorf("UserID = %s, want %s", principal.UserID, member.ID)
	}
	if principal.Role != model.RoleSales {
		t.Errorf("Role = %s, want SALES", principal.Role)
	}
	if !principal.CanEditQuotes() {
		t.Error("sales principal should be able to edit quotes")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewParser("secret-a").Sign(model.Member{ID: uuid.New(), Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := NewParser("secret-b").Parse(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewParser("secret").Parse("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
