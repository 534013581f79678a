package models

// Person represents one participant splitting the bill.
type Person struct {
	// Name is the unique identifier for the person within a session.
	Name string

	// Email is optional; people without one are skipped by the mailers.
	Email string
}

// PaymentAccount is one way to pay the initiator back,
// e.g. {Label: "GoPay", Detail: "0812xxxx"}.
type PaymentAccount struct {
	Label  string
	Detail string
}

// Initiator is the person who paid the bill and collects the shares.
// Payment accounts attach here, not to each participant.
type Initiator struct {
	Name     string
	Email    string
	Accounts []PaymentAccount
}
