package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// ClientID represents a client identifier
type ClientID int64

// String returns the string representation
func (id ClientID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Int64 returns the int64 representation
func (id ClientID) Int64() int64 {
	return int64(id)
}

// ContactID represents a contact identifier
type ContactID int64

// String returns the string representation
func (id ContactID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// OpportunityID represents a sales opportunity identifier
type OpportunityID int64

// String returns the string representation
func (id OpportunityID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ActivityID represents an activity identifier
type ActivityID int64

// String returns the string representation
func (id ActivityID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ProductID represents a product identifier
type ProductID int64

// String returns the string representation
func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a positive decimal identifier as used in URL paths
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid ID", goerr.V("id", s))
	}
	if id <= 0 {
		return 0, goerr.New("ID must be positive", goerr.V("id", s))
	}
	return id, nil
}

// Channel is the delivery channel of a bulk notification
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// IsValid checks if the channel is supported
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelWhatsApp:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (c Channel) String() string {
	return string(c)
}

// AddressKind tags a contact address with the medium it belongs to
type AddressKind string

const (
	AddressKindEmail AddressKind = "email"
	AddressKindPhone AddressKind = "phone"
)

// String returns the string representation
func (k AddressKind) String() string {
	return string(k)
}

// ContentKind is the MIME flavour of a message body
type ContentKind string

const (
	ContentKindPlain ContentKind = "plain"
	ContentKindHTML  ContentKind = "html"
)

// MIMEType returns the Content-Type value for the body part
func (k ContentKind) MIMEType() string {
	if k == ContentKindHTML {
		return "text/html"
	}
	return "text/plain"
}
