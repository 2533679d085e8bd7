package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchIssued           EventType = "SearchIssued"
	EventResultsReplaced        EventType = "ResultsReplaced"
	EventResultsAppended        EventType = "ResultsAppended"
	EventStaleResponseDiscarded EventType = "StaleResponseDiscarded"
	EventFetchFailed            EventType = "FetchFailed"
	EventSignInRequired         EventType = "SignInRequired"
	EventConfigLoaded           EventType = "ConfigLoaded"
	EventConfigSaved            EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FetchMode tells which kind of request an event refers to
type FetchMode string

const (
	FetchModeFilter   FetchMode = "filter"
	FetchModeLoadMore FetchMode = "load_more"
)

// SearchIssuedEvent is emitted when a debounced search request leaves the controller
type SearchIssuedEvent struct {
	Seq   uint64
	Query string
	Skip  int
	Take  int
}

func (e SearchIssuedEvent) Type() EventType { return EventSearchIssued }

// ResultsReplacedEvent is emitted when a search response replaces the visible orders
type ResultsReplacedEvent struct {
	Seq           uint64
	Query         string
	Count         int
	Authenticated bool
}

func (e ResultsReplacedEvent) Type() EventType { return EventResultsReplaced }

// ResultsAppendedEvent is emitted when a load-more response is appended
type ResultsAppendedEvent struct {
	Added int
	Total int
	Page  int
}

func (e ResultsAppendedEvent) Type() EventType { return EventResultsAppended }

// StaleResponseDiscardedEvent is emitted when a response arrives after a newer request superseded it
type StaleResponseDiscardedEvent struct {
	Mode FetchMode
	Seq  uint64
}

func (e StaleResponseDiscardedEvent) Type() EventType { return EventStaleResponseDiscarded }

// FetchFailedEvent is emitted when a request to the shop API fails
type FetchFailedEvent struct {
	Mode FetchMode
	Err  error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// SignInRequiredEvent is emitted when the shop API reports no active customer
type SignInRequiredEvent struct {
	Mode FetchMode
}

func (e SignInRequiredEvent) Type() EventType { return EventSignInRequired }

// ConfigLoadedEvent is emitted after configuration is read
type ConfigLoadedEvent struct {
	Path   string
	APIURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted after configuration is written
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
