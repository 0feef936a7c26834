package directory

type User struct {
	ID             string `json:"id"`
	Username       string `json:"userName"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	UserType       string `json:"userType"`
	OrganizationID string `json:"organizationId"`
	DivisionID     string `json:"divisionId,omitempty"`
	Language       string `json:"language,omitempty"`
	AccountType    string `json:"accountType,omitempty"`
	AccountStatus  string `json:"accountStatus,omitempty"`
}

// whoami отдает userId вместо id
type whoAmI struct {
	User
	UserID string `json:"userId"`
}

type Organization struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BaseURL        string `json:"baseUrl"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	CreationDate   string `json:"creationDate"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

type Division struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
	CreationDate   string `json:"creationDate"`
	CreatorID      string `json:"creatorId"`
	Status         string `json:"status"`
}

type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MailingList struct {
	LibraryID string `json:"libraryId"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
}

type Contact struct {
	ID                    string `json:"id"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	ExternalDataReference string `json:"externalDataReference,omitempty"`
	Language              string `json:"language,omitempty"`
	Unsubscribed          bool   `json:"unsubscribed"`
}

type Library struct {
	ID   string `json:"libraryId"`
	Name string `json:"libraryName"`
}

// Survey - элемент списка опросов
type Survey struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OwnerID        string `json:"ownerId"`
	OrganizationID string `json:"organizationId,omitempty"`
	IsActive       bool   `json:"isActive"`
	CreationDate   string `json:"creationDate,omitempty"`
	LastModified   string `json:"lastModifiedDate,omitempty"`
	Expiration     string `json:"expiration,omitempty"`
}
