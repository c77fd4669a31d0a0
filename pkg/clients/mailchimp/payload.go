package mailchimp

// StatusSubscribed is the only member status this relay ever sends
const StatusSubscribed = "subscribed"

// MergeFields carries the list's name fields
type MergeFields struct {
	FirstName string `json:"FNAME"`
	LastName  string `json:"LNAME"`
}

// Member is one entry of a batch subscribe request
type Member struct {
	EmailAddress string      `json:"email_address"`
	Status       string      `json:"status"`
	MergeFields  MergeFields `json:"merge_fields"`
}

// BatchRequest is the body of POST /lists/{list_id}
type BatchRequest struct {
	Members []Member `json:"members"`
}

// NewSubscribeRequest builds a single-member batch. Values are copied as
// given; no trimming or normalization happens here.
func NewSubscribeRequest(firstName, lastName, email string) BatchRequest {
	return BatchRequest{
		Members: []Member{
			{
				EmailAddress: email,
				Status:       StatusSubscribed,
				MergeFields: MergeFields{
					FirstName: firstName,
					LastName:  lastName,
				},
			},
		},
	}
}

// MemberError is a per-member failure reported inside a 200 response
type MemberError struct {
	EmailAddress string `json:"email_address"`
	Error        string `json:"error"`
	ErrorCode    string `json:"error_code"`
}

// BatchResponse is the subset of the batch subscribe response the relay logs
type BatchResponse struct {
	TotalCreated int           `json:"total_created"`
	TotalUpdated int           `json:"total_updated"`
	ErrorCount   int           `json:"error_count"`
	Errors       []MemberError `json:"errors"`
}
