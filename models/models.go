package models

// Itinerary status values. The transition is one-way: an itinerary is
// created upcoming and can only be marked completed by the user.
const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
)

// Stop is one entry of a multi-stop location (e.g. a food crawl).
type Stop struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	Note    string `json:"note,omitempty" bson:"note,omitempty"`
}

// Location describes where an activity happens.
type Location struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Address      string `json:"address,omitempty" bson:"address,omitempty"`
	CrossStreet  string `json:"crossStreet,omitempty" bson:"crossStreet,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
	MapsURL      string `json:"mapsUrl,omitempty" bson:"mapsUrl,omitempty"`
	Stops        []Stop `json:"stops,omitempty" bson:"stops,omitempty"`
}

// ActivityBudget holds the per-activity cost estimate and what was
// actually spent.
type ActivityBudget struct {
	Estimated *float64 `json:"estimated" bson:"estimated"`
	Actual    *float64 `json:"actual" bson:"actual"`
	Note      string   `json:"note,omitempty" bson:"note,omitempty"`
}

// Activity is one line item in an itinerary's timeline. Order is the
// authoritative position, dense 0-based within the owning itinerary.
type Activity struct {
	ID        string         `json:"id" bson:"id"`
	Title     string         `json:"title" bson:"title"`
	Type      string         `json:"type" bson:"type"` // arrival/shopping/activity/dining/cafe/travel/surprise
	StartTime string         `json:"startTime,omitempty" bson:"startTime,omitempty"` // HH:MM
	EndTime   string         `json:"endTime,omitempty" bson:"endTime,omitempty"`     // HH:MM
	Location  *Location      `json:"location,omitempty" bson:"location,omitempty"`
	Notes     string         `json:"notes,omitempty" bson:"notes,omitempty"`
	Tips      string         `json:"tips,omitempty" bson:"tips,omitempty"`
	Budget    ActivityBudget `json:"budget" bson:"budget"`
	Completed bool           `json:"completed" bson:"completed"`
	Order     int            `json:"order" bson:"order"`
}

// TravelSegment is a descriptive transit leg between two activities.
// It is not validated against the activity list.
type TravelSegment struct {
	From       string `json:"from" bson:"from"`
	To         string `json:"to" bson:"to"`
	Duration   string `json:"duration,omitempty" bson:"duration,omitempty"`
	Directions string `json:"directions,omitempty" bson:"directions,omitempty"`
}

// KeyLocation is a named place of interest for the whole itinerary,
// independent of the activity list.
type KeyLocation struct {
	Name      string `json:"name" bson:"name"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	ShortNote string `json:"shortNote,omitempty" bson:"shortNote,omitempty"`
}

type BudgetEstimate struct {
	Total     float64 `json:"total" bson:"total"`
	Breakdown string  `json:"breakdown" bson:"breakdown"`
}

type BudgetActual struct {
	Total     *float64 `json:"total" bson:"total"`
	Breakdown *string  `json:"breakdown" bson:"breakdown"`
}

type Budget struct {
	Estimated BudgetEstimate `json:"estimated" bson:"estimated"`
	Actual    BudgetActual   `json:"actual" bson:"actual"`
}

// Memories is filled in after a date happened. Rating is 1..5 or nil.
type Memories struct {
	Reflection     string   `json:"reflection" bson:"reflection"`
	FavoriteMemory string   `json:"favoriteMemory" bson:"favoriteMemory"`
	Rating         *int     `json:"rating" bson:"rating"`
	Photos         []string `json:"photos" bson:"photos"`
}

// Itinerary is a single planned or completed date.
// Date, CreatedAt and UpdatedAt are Unix-millisecond timestamps.
type Itinerary struct {
	ID             string          `json:"id" bson:"id"`
	Title          string          `json:"title" bson:"title"`
	Date           int64           `json:"date" bson:"date"`
	Description    string          `json:"description" bson:"description"`
	Status         string          `json:"status" bson:"status"`
	Activities     []Activity      `json:"activities" bson:"activities"`
	TravelSegments []TravelSegment `json:"travelSegments" bson:"travelSegments"`
	KeyLocations   []KeyLocation   `json:"keyLocations" bson:"keyLocations"`
	Budget         Budget          `json:"budget" bson:"budget"`
	Memories       Memories        `json:"memories" bson:"memories"`
	CreatedAt      int64           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt" bson:"updatedAt"`
}

func (i Itinerary) RecordID() string { return i.ID }

// Anniversary is a recurring or one-off milestone date. Whether it is
// past or upcoming is purely a function of the current time.
type Anniversary struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Date        int64  `json:"date" bson:"date"`
	Description string `json:"description" bson:"description"`
	Recurring   bool   `json:"recurring" bson:"recurring"`
	CreatedAt   int64  `json:"createdAt" bson:"createdAt"`
}

func (a Anniversary) RecordID() string { return a.ID }

// LoveNote is a short timestamped message. Notes are append-only and
// immutable once sent.
type LoveNote struct {
	ID        string `json:"id" bson:"id"`
	FromName  string `json:"fromName" bson:"fromName"`
	Message   string `json:"message" bson:"message"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

func (n LoveNote) RecordID() string { return n.ID }
