// Package catalog carries the built-in resource descriptors for the Splinx
// Planet back office: one descriptor per dashboard screen. Deployments can
// override or extend the set from a YAML file.
package catalog

import "github.com/splinxplanet/go-backoffice/pkg/resource"

// Builtin returns the descriptors for the standard dashboard screens. Each
// call returns fresh values, safe for callers to adjust.
func Builtin() []resource.Descriptor {
	return []resource.Descriptor{
		Admin(),
		Customer(),
		Event(),
		Advert(),
		Promo(),
		Subscription(),
		Withdrawal(),
		Notification(),
	}
}

// Lookup finds a built-in descriptor by resource name.
func Lookup(name string) (resource.Descriptor, bool) {
	for _, desc := range Builtin() {
		if desc.Name == name {
			return desc, true
		}
	}
	return resource.Descriptor{}, false
}

// Admin describes the team/admin management screen. The backend's admin
// routes predate its newer conventions, hence the bespoke path table.
func Admin() resource.Descriptor {
	return resource.Descriptor{
		Name:       "admin",
		Title:      "Team Admin",
		PrimaryKey: "_id",
		Endpoints: resource.Endpoints{
			List:   "/admin/admin-get-all",
			Get:    "/get-admin/{id}",
			Create: "/admin/admin-create",
			Update: "/admin/admin-update/{id}",
			Delete: "/admin/admin-delete/{id}",
		},
		Schema: resource.FieldSchema{
			{Name: "firstName", Label: "First Name", Kind: resource.FieldText, Required: true},
			{Name: "lastName", Label: "Last Name", Kind: resource.FieldText, Required: true},
			{Name: "emailAddress", Label: "Email Address", Kind: resource.FieldEmail, Required: true},
			{Name: "password", Label: "Password", Kind: resource.FieldText, Required: true, Secret: true},
			{Name: "phoneNumber", Label: "Phone Number", Kind: resource.FieldText},
			{Name: "userName", Label: "Username", Kind: resource.FieldText},
			{Name: "address", Label: "Address", Kind: resource.FieldText},
			{Name: "city", Label: "City", Kind: resource.FieldText},
			{Name: "country", Label: "Country", Kind: resource.FieldText},
			{Name: "profileImage", Label: "Profile Image", Kind: resource.FieldText},
			{Name: "role", Label: "Role", Kind: resource.FieldSelect, Required: true,
				Options: []string{"Admin", "Super Admin", "Support"}},
			{Name: "nextOfKin", Label: "Next of Kin", Kind: resource.FieldGroup, Nested: []resource.FieldSpec{
				{Name: "fullName", Label: "Full Name", Kind: resource.FieldText},
				{Name: "phoneNumber", Label: "Phone Number", Kind: resource.FieldText},
				{Name: "email", Label: "Email", Kind: resource.FieldEmail},
				{Name: "address", Label: "Address", Kind: resource.FieldText},
			}},
		},
		Searchable: []string{"firstName", "lastName", "emailAddress", "userName", "role"},
	}
}

// Customer describes the customer management screen.
func Customer() resource.Descriptor {
	return resource.Descriptor{
		Name:       "customer",
		Title:      "Customer",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("customer"),
		Schema: resource.FieldSchema{
			{Name: "firstName", Label: "First Name", Kind: resource.FieldText, Required: true},
			{Name: "lastName", Label: "Last Name", Kind: resource.FieldText, Required: true},
			{Name: "emailAddress", Label: "Email Address", Kind: resource.FieldEmail, Required: true},
			{Name: "phoneNumber", Label: "Phone Number", Kind: resource.FieldText},
			{Name: "city", Label: "City", Kind: resource.FieldText},
			{Name: "country", Label: "Country", Kind: resource.FieldText},
			{Name: "status", Label: "Status", Kind: resource.FieldSelect,
				Options: []string{"active", "suspended"}},
		},
		Searchable: []string{"firstName", "lastName", "emailAddress", "phoneNumber"},
	}
}

// Event describes the events screen. List and item routes use different
// nouns on the backend, which is exactly why paths are configuration.
func Event() resource.Descriptor {
	return resource.Descriptor{
		Name:       "event",
		Title:      "Event",
		PrimaryKey: "_id",
		Endpoints: resource.Endpoints{
			List:   "/events",
			Get:    "/event/{id}",
			Create: "/event/create",
			Update: "/events/{id}",
			Delete: "/event/{id}",
		},
		Schema: resource.FieldSchema{
			{Name: "name", Label: "Event Name", Kind: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Kind: resource.FieldText},
			{Name: "location", Label: "Location", Kind: resource.FieldText},
			{Name: "date", Label: "Date", Kind: resource.FieldDate, Required: true},
			{Name: "cost", Label: "Cost", Kind: resource.FieldNumber},
			{Name: "createdBy", Label: "Created By", Kind: resource.FieldText},
		},
		Searchable: []string{"name", "location", "createdBy"},
	}
}

// Advert describes the advertisement manager screen.
func Advert() resource.Descriptor {
	return resource.Descriptor{
		Name:       "advert",
		Title:      "Advert",
		PrimaryKey: "_id",
		Endpoints: resource.Endpoints{
			List:   "/advert",
			Get:    "/advert/{id}",
			Create: "/advert/create",
			Update: "/advert-update/{id}",
			Delete: "/advert-delete/{id}",
		},
		Schema: resource.FieldSchema{
			{Name: "name", Label: "Advert Name", Kind: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Kind: resource.FieldText, Rich: true},
			{Name: "budget", Label: "Budget", Kind: resource.FieldNumber},
			{Name: "startDate", Label: "Start Date", Kind: resource.FieldDate},
			{Name: "endDate", Label: "End Date", Kind: resource.FieldDate},
			{Name: "status", Label: "Status", Kind: resource.FieldSelect,
				Options: []string{"active", "paused", "ended"}},
		},
		Searchable: []string{"name", "status"},
	}
}

// Promo describes the promo code manager screen.
func Promo() resource.Descriptor {
	return resource.Descriptor{
		Name:       "promo",
		Title:      "Promo Code",
		PrimaryKey: "_id",
		Endpoints: resource.Endpoints{
			List:   "/promo",
			Get:    "/promo/{id}",
			Create: "/promo/create",
			Update: "/promo-update/{id}",
			Delete: "/promo-delete/{id}",
		},
		Schema: resource.FieldSchema{
			{Name: "promoCode", Label: "Promo Code", Kind: resource.FieldText, Required: true},
			{Name: "discount", Label: "Discount", Kind: resource.FieldNumber, Required: true},
			{Name: "status", Label: "Status", Kind: resource.FieldSelect,
				Options: []string{"active", "inactive"}},
			{Name: "expiryDate", Label: "Expiry Date", Kind: resource.FieldDate},
		},
		Searchable: []string{"promoCode", "status"},
	}
}

// Subscription describes the subscription plan screen.
func Subscription() resource.Descriptor {
	return resource.Descriptor{
		Name:       "subscription",
		Title:      "Subscription",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("subscription"),
		Schema: resource.FieldSchema{
			{Name: "planName", Label: "Plan Name", Kind: resource.FieldText, Required: true},
			{Name: "price", Label: "Price", Kind: resource.FieldNumber, Required: true},
			{Name: "recurring", Label: "Recurring", Kind: resource.FieldSelect,
				Options: []string{"yes", "no"}},
			{Name: "status", Label: "Status", Kind: resource.FieldSelect,
				Options: []string{"active", "cancelled"}},
		},
		Searchable: []string{"planName", "status"},
	}
}

// Withdrawal describes the withdrawal request screen.
func Withdrawal() resource.Descriptor {
	return resource.Descriptor{
		Name:       "withdrawal",
		Title:      "Withdrawal Request",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("withdrawal"),
		Schema: resource.FieldSchema{
			{Name: "recipient", Label: "Recipient", Kind: resource.FieldText, Required: true},
			{Name: "amount", Label: "Amount", Kind: resource.FieldNumber, Required: true},
			{Name: "status", Label: "Status", Kind: resource.FieldSelect,
				Options: []string{"pending", "approved", "declined"}},
			{Name: "dateCreated", Label: "Date Created", Kind: resource.FieldDate},
		},
		Searchable: []string{"recipient", "status"},
	}
}

// Notification describes the push notification screen.
func Notification() resource.Descriptor {
	return resource.Descriptor{
		Name:       "notification",
		Title:      "Push Notification",
		PrimaryKey: "_id",
		Endpoints:  resource.DefaultEndpoints("notification"),
		Schema: resource.FieldSchema{
			{Name: "title", Label: "Title", Kind: resource.FieldText, Required: true},
			{Name: "message", Label: "Message", Kind: resource.FieldText, Required: true, Rich: true},
			{Name: "recipient", Label: "Recipient", Kind: resource.FieldSelect,
				Options: []string{"all", "customers", "admins"}},
			{Name: "date", Label: "Date", Kind: resource.FieldDate},
		},
		Searchable: []string{"title", "recipient"},
	}
}
