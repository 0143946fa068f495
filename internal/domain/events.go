package domain

// EventKind identifies an outbound customer notification.
type EventKind string

const (
	EventLoanApproved        EventKind = "loan.approved"
	EventLoanRejected        EventKind = "loan.rejected"
	EventLoanPaymentReceived EventKind = "loan.payment_received"
	EventLoanClosed          EventKind = "loan.closed"
	EventScheduleUpdated     EventKind = "loan.schedule_updated"
	EventDeposit             EventKind = "account.deposit"
	EventWithdrawal          EventKind = "account.withdrawal"
	EventTransferOut         EventKind = "account.transfer_out"
	EventTransferIn          EventKind = "account.transfer_in"
	EventAccountFrozen       EventKind = "account.frozen"
	EventAccountUnfrozen     EventKind = "account.unfrozen"
)
