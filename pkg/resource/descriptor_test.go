package resource

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validDescriptor() Descriptor {
	return Descriptor{
		Name:       "admin",
		Title:      "Team Member",
		PrimaryKey: "_id",
		Endpoints:  DefaultEndpoints("admin"),
		Schema: FieldSchema{
			{Name: "firstName", Kind: FieldText, Required: true},
			{Name: "emailAddress", Kind: FieldEmail, Required: true},
			{Name: "role", Kind: FieldSelect, Options: []string{"Admin", "Support"}},
			{Name: "nextOfKin", Kind: FieldGroup, Nested: []FieldSpec{
				{Name: "fullName", Kind: FieldText},
				{Name: "phoneNumber", Kind: FieldText},
			}},
		},
	}
}

func TestDescriptorValidate_AcceptsCompleteDescriptor(t *testing.T) {
	if err := validDescriptor().Validate(); err != nil {
		t.Fatalf("expected valid descriptor, got %v", err)
	}
}

func TestDescriptorValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Descriptor)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(d *Descriptor) { d.Name = " " },
			wantMsg: "name is required",
		},
		{
			name:    "missing primary key",
			mutate:  func(d *Descriptor) { d.PrimaryKey = "" },
			wantMsg: "primary key",
		},
		{
			name:    "empty schema",
			mutate:  func(d *Descriptor) { d.Schema = nil },
			wantMsg: "schema is empty",
		},
		{
			name:    "incomplete endpoints",
			mutate:  func(d *Descriptor) { d.Endpoints.Update = "" },
			wantMsg: "endpoint table is incomplete",
		},
		{
			name:    "unknown searchable field",
			mutate:  func(d *Descriptor) { d.Searchable = []string{"nope"} },
			wantMsg: `searchable field "nope"`,
		},
		{
			name: "duplicate field",
			mutate: func(d *Descriptor) {
				d.Schema = append(d.Schema, FieldSpec{Name: "firstName", Kind: FieldText})
			},
			wantMsg: "duplicate field",
		},
		{
			name: "select without options",
			mutate: func(d *Descriptor) {
				d.Schema = FieldSchema{{Name: "status", Kind: FieldSelect}}
			},
			wantMsg: "has no options",
		},
		{
			name: "empty group",
			mutate: func(d *Descriptor) {
				d.Schema = FieldSchema{{Name: "kin", Kind: FieldGroup}}
			},
			wantMsg: "has no children",
		},
		{
			name: "group inside group",
			mutate: func(d *Descriptor) {
				d.Schema = FieldSchema{{Name: "kin", Kind: FieldGroup, Nested: []FieldSpec{
					{Name: "inner", Kind: FieldGroup, Nested: []FieldSpec{{Name: "x", Kind: FieldText}}},
				}}}
			},
			wantMsg: "nests another group",
		},
		{
			name: "unknown kind",
			mutate: func(d *Descriptor) {
				d.Schema = FieldSchema{{Name: "blob", Kind: FieldKind("binary")}}
			},
			wantMsg: "unknown kind",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			desc := validDescriptor()
			tc.mutate(&desc)
			err := desc.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantMsg)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error containing %q, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestEndpointsForID(t *testing.T) {
	e := Endpoints{}
	tests := []struct {
		template string
		id       string
		want     string
	}{
		{"/admin/admin-update/{id}", "abc123", "/admin/admin-update/abc123"},
		{"/event/{id}", "e-1", "/event/e-1"},
		{"/promo-update", "p9", "/promo-update/p9"},
		{"/promo-update/", "p9", "/promo-update/p9"},
	}
	for _, tc := range tests {
		if got := e.ForID(tc.template, tc.id); got != tc.want {
			t.Fatalf("ForID(%q, %q) = %q, want %q", tc.template, tc.id, got, tc.want)
		}
	}
}

func TestDefaultEndpoints(t *testing.T) {
	got := DefaultEndpoints("promo")
	want := Endpoints{
		List:   "/promo",
		Get:    "/promo/{id}",
		Create: "/promo/create",
		Update: "/promo/{id}",
		Delete: "/promo/{id}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected endpoints (-want +got):\n%s", diff)
	}
}

func TestSearchFields_DefaultsToNonGroupFields(t *testing.T) {
	desc := validDescriptor()
	got := desc.SearchFields()
	want := []string{"firstName", "emailAddress", "role"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected search fields (-want +got):\n%s", diff)
	}
}

func TestSearchFields_ExplicitListWins(t *testing.T) {
	desc := validDescriptor()
	desc.Searchable = []string{"firstName"}
	got := desc.SearchFields()
	if diff := cmp.Diff([]string{"firstName"}, got); diff != "" {
		t.Fatalf("unexpected search fields (-want +got):\n%s", diff)
	}
}
