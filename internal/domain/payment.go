package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// PaymentMethod is used both as deposit method and withdrawal wallet type.
type PaymentMethod string

const (
	MethodBitcoin   PaymentMethod = "BITCOIN"
	MethodLightning PaymentMethod = "LIGHTNING"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodBitcoin || m == MethodLightning
}

// ConfigKey returns the system config key holding the receiving address for m.
func (m PaymentMethod) ConfigKey() string {
	if m == MethodLightning {
		return ConfigLightningAddress
	}
	return ConfigBTCAddress
}

type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
)

func (t TxType) Valid() bool {
	return t == TxDeposit || t == TxWithdrawal
}

type Deposit struct {
	ID            string          `db:"id" json:"id"`
	GameID        string          `db:"game_id" json:"gameId"`
	Game          *GameRef        `json:"game,omitempty"`
	Username      string          `db:"username" json:"username"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	Address       string          `db:"address" json:"address"`
	Status        Status          `db:"status" json:"status"`
	TxID          string          `db:"tx_id" json:"txId,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

type Withdrawal struct {
	ID            string          `db:"id" json:"id"`
	GameID        string          `db:"game_id" json:"gameId"`
	Game          *GameRef        `json:"game,omitempty"`
	Username      string          `db:"username" json:"username"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	NetworkFee    decimal.Decimal `db:"network_fee" json:"networkFee"`
	NetAmount     decimal.Decimal `db:"net_amount" json:"netAmount"`
	WalletType    PaymentMethod   `db:"wallet_type" json:"walletType"`
	WalletAddress string          `db:"wallet_address" json:"walletAddress"`
	Status        Status          `db:"status" json:"status"`
	TxID          string          `db:"tx_id" json:"txId,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Transaction is the unified admin view over deposits and withdrawals.
type Transaction struct {
	ID        string           `json:"id"`
	Type      TxType           `json:"type"`
	GameID    string           `json:"gameId"`
	Game      *GameRef         `json:"game,omitempty"`
	Username  string           `json:"username"`
	Amount    decimal.Decimal  `json:"amount"`
	NetAmount *decimal.Decimal `json:"netAmount,omitempty"`
	Method    PaymentMethod    `json:"method"`
	Address   string           `json:"address"`
	Status    Status           `json:"status"`
	TxID      string           `json:"txId,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (d *Deposit) Transaction() Transaction {
	return Transaction{
		ID:        d.ID,
		Type:      TxDeposit,
		GameID:    d.GameID,
		Game:      d.Game,
		Username:  d.Username,
		Amount:    d.Amount,
		Method:    d.PaymentMethod,
		Address:   d.Address,
		Status:    d.Status,
		TxID:      d.TxID,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (w *Withdrawal) Transaction() Transaction {
	net := w.NetAmount
	return Transaction{
		ID:        w.ID,
		Type:      TxWithdrawal,
		GameID:    w.GameID,
		Game:      w.Game,
		Username:  w.Username,
		Amount:    w.Amount,
		NetAmount: &net,
		Method:    w.WalletType,
		Address:   w.WalletAddress,
		Status:    w.Status,
		TxID:      w.TxID,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// StatusUpdate is an admin decision on a pending transaction.
type StatusUpdate struct {
	ID     string
	Type   TxType
	Status Status
	TxID   *string
	Notes  *string
	// Expected, when set, must equal the current status
	Expected Status
}

// TxFilter narrows deposit/withdrawal listings at the storage level.
type TxFilter struct {
	Status   Status
	GameID   string
	Username string
	Limit    int
}

// TxSummary aggregates one transaction table for the admin dashboard.
type TxSummary struct {
	Pending         int64           `json:"pending"`
	Completed       int64           `json:"completed"`
	Rejected        int64           `json:"rejected"`
	CompletedAmount decimal.Decimal `json:"completedAmount"`
}
