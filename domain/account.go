package domain

import (
	"encoding/json"
	"sort"
)

// Account is the durable record of one registered username.
type Account struct {
	Username  string `json:"-"`
	Password  string `json:"password"`
	Tasks     []Task `json:"tasks"`
	Theme     string `json:"theme"`
	IsPremium bool   `json:"isPremium"`

	// NoPassword marks a record stored without a password. Such an account cannot be signed into.
	NoPassword bool `json:"-"`
}

// MarshalJSON omits the password key for accounts that never had one so the gap survives a round trip.
func (a Account) MarshalJSON() ([]byte, error) {
	rec := struct {
		Password  *string `json:"password,omitempty"`
		Tasks     []Task  `json:"tasks"`
		Theme     string  `json:"theme"`
		IsPremium bool    `json:"isPremium"`
	}{Tasks: a.Tasks, Theme: a.Theme, IsPremium: a.IsPremium}
	if !a.NoPassword {
		rec.Password = &a.Password
	}
	return json.Marshal(rec)
}

// NewAccount builds an account with the documented defaults.
func NewAccount(username, password string) *Account {
	return &Account{
		Username: username,
		Password: password,
		Tasks:    []Task{},
		Theme:    DefaultTheme,
	}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Tasks = CloneTasks(a.Tasks)
	return &out
}

// Directory maps usernames to their accounts. It is persisted as one unit.
type Directory map[string]*Account

// Clone returns a deep copy of the directory.
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for name, acct := range d {
		out[name] = acct.Clone()
	}
	return out
}

// Usernames returns the registered usernames in sorted order.
func (d Directory) Usernames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// accountRecord mirrors Account with optional fields so missing keys can be told apart from zero values.
type accountRecord struct {
	Password  *string            `json:"password"`
	Tasks     *[]json.RawMessage `json:"tasks"`
	Todos     *[]json.RawMessage `json:"todos"`
	Theme     *string            `json:"theme"`
	IsPremium *bool              `json:"isPremium"`
}

type taskRecord struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// EncodeDirectory serializes the whole directory.
func EncodeDirectory(dir Directory) ([]byte, error) {
	if dir == nil {
		dir = Directory{}
	}
	return json.Marshal(dir)
}

// DecodeDirectory parses a persisted directory. Empty input yields an empty directory.
//
// Malformed records are repaired with defaults (theme "default", not premium, no tasks) and
// the returned error carries ErrCodeCorruptState while the directory is still usable. Input that
// is not a JSON object at all yields an empty directory and the same error code.
func DecodeDirectory(data []byte) (Directory, error) {
	dir := Directory{}
	if len(data) == 0 {
		return dir, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return dir, WrapError(ErrCodeCorruptState, "account directory unreadable", err)
	}

	var repaired []string
	for name, body := range raw {
		acct, ok := decodeAccount(name, body)
		if !ok {
			repaired = append(repaired, name)
		}
		dir[name] = acct
	}

	if len(repaired) > 0 {
		sort.Strings(repaired)
		return dir, &Error{
			Code:    ErrCodeCorruptState,
			Message: "account records repaired with defaults",
			Err:     &RepairedAccountsError{Usernames: repaired},
		}
	}
	return dir, nil
}

// RepairedAccountsError lists the usernames whose records were patched while decoding.
type RepairedAccountsError struct {
	Usernames []string
}

func (e *RepairedAccountsError) Error() string {
	out, _ := json.Marshal(e.Usernames)
	return "repaired accounts " + string(out)
}

func decodeAccount(name string, body json.RawMessage) (*Account, bool) {
	acct := NewAccount(name, "")

	var rec accountRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return acct, false
	}

	intact := true
	if rec.Password != nil {
		acct.Password = *rec.Password
	} else {
		acct.NoPassword = true
		intact = false
	}
	if rec.Theme != nil && *rec.Theme != "" {
		acct.Theme = *rec.Theme
	} else {
		intact = false
	}
	if rec.IsPremium != nil {
		acct.IsPremium = *rec.IsPremium
	} else {
		intact = false
	}
	if rec.Tasks == nil {
		// directories written by the browser build keep the list under "todos"
		rec.Tasks = rec.Todos
	}
	if rec.Tasks == nil {
		return acct, false
	}
	for _, item := range *rec.Tasks {
		var tr taskRecord
		if err := json.Unmarshal(item, &tr); err != nil || tr.Text == nil {
			intact = false
			continue
		}
		task, ok := NewTask(*tr.Text)
		if !ok {
			intact = false
			continue
		}
		if tr.Completed != nil {
			task.Completed = *tr.Completed
		}
		acct.Tasks = append(acct.Tasks, task)
	}
	return acct, intact
}
