package syncer

// Project is one row of the global project list.
type Project struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
	Stage  string `json:"stage,omitempty"`
	Active bool   `json:"active"`
	ExtID  string `json:"extId,omitempty"`
}

// Commitment is a subcontract or purchase order on a project.
type Commitment struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Vendor      string `json:"vendorName,omitempty"`
	Status      string `json:"status,omitempty"`
	Executed    bool   `json:"executed"`
	AmountCents int64  `json:"amountCents"`
}

// BuyoutRecord tracks buyout progress for a commitment.
type BuyoutRecord struct {
	ID           string `json:"id,omitempty"`
	ProjectID    string `json:"projectId"`
	CommitmentID string `json:"commitmentId"`
	Status       string `json:"status,omitempty"`
	BudgetCents  int64  `json:"budgetCents"`
	BuyoutCents  int64  `json:"buyoutCents"`
	SavingsCents int64  `json:"savingsCents"`
}

// BudgetDetail is one row of a project budget breakdown.
type BudgetDetail struct {
	RowID           string `json:"budgetRowId"`
	ProjectID       string `json:"projectId"`
	CostCode        string `json:"costCode,omitempty"`
	Description     string `json:"description,omitempty"`
	OriginalCents   int64  `json:"originalBudgetCents"`
	ApprovedCOCents int64  `json:"approvedCOCents"`
	RevisedCents    int64  `json:"revisedBudgetCents"`
}

// BudgetLineItem is a raw budget line as the remote API returns it.
// CostCodeLevel3 and ExtID are nullable upstream; rows missing either are
// dropped by the line-item read's data-quality gate.
type BudgetLineItem struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"projectId"`
	CostCodeLevel1 *string `json:"costCodeLevel1"`
	CostCodeLevel2 *string `json:"costCodeLevel2"`
	CostCodeLevel3 *string `json:"costCodeLevel3"`
	ExtID          *string `json:"extId"`
	Description    string  `json:"description,omitempty"`
	AmountCents    int64   `json:"amountCents"`
}
