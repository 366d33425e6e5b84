package model

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Generic Record Format to store data at a storage Node.
// simpleFields mapFields listFields.
type Record struct {
	ID string `json:"id"`

	// plain key, value fields
	SimpleFields map[string]string `json:"simpleFields"`

	// all fields whose values are a list of values
	ListFields map[string][]string `json:"listFields"`

	// all fields whose values are key, value
	MapFields map[string]map[string]string `json:"mapFields"`
}

// NewRecord creates a new instance of Record instance
func NewRecord(id string) *Record {
	return &Record{
		ID:           id,
		SimpleFields: map[string]string{},
		ListFields:   map[string][]string{},
		MapFields:    map[string]map[string]string{},
	}
}

// NewRecordFromBytes creates a new znode instance from a byte array
func NewRecordFromBytes(data []byte) (*Record, error) {
	var zn Record
	if err := json.Unmarshal(data, &zn); err != nil {
		return nil, err
	}
	return &zn, nil
}

// Marshal generates the beautified json in byte array format
func (r Record) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}

// String returns the beautified JSON string for the Record
func (r Record) String() string {
	s, _ := r.Marshal()
	return string(s)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	c := NewRecord(r.ID)
	for k, v := range r.SimpleFields {
		c.SimpleFields[k] = v
	}
	for k, v := range r.ListFields {
		c.ListFields[k] = append([]string(nil), v...)
	}
	for k, m := range r.MapFields {
		cm := make(map[string]string, len(m))
		for p, v := range m {
			cm[p] = v
		}
		c.MapFields[k] = cm
	}
	return c
}

// Equal reports whether two records hold the same content.
// A nil field map equals an empty one.
func (r *Record) Equal(that *Record) bool {
	if r == nil || that == nil {
		return r == that
	}

	return reflect.DeepEqual(r.Clone(), that.Clone())
}

// HasSimpleField checks if the key is present under SimpleField, even with an empty value.
func (r Record) HasSimpleField(key string) bool {
	_, present := r.SimpleFields[key]
	return present
}

// GetSimpleField returns a value of a key in SimpleField structure
func (r Record) GetSimpleField(key string) (string, bool) {
	v, present := r.SimpleFields[key]
	return v, present
}

// GetIntField returns the integer value of a field in the SimpleField
func (r Record) GetIntField(key string, defaultValue int) int {
	value, present := r.GetSimpleField(key)
	if !present {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// GetStringField returns the string value of a field in the SimpleField
func (r Record) GetStringField(key string, defaultValue string) string {
	value, present := r.GetSimpleField(key)
	if !present {
		return defaultValue
	}
	return value
}

func (r *Record) SetStringField(key string, value string) {
	r.SetSimpleField(key, value)
}

// SetIntField sets the integer value of a key under SimpleField.
// the value is stored as in string form
func (r *Record) SetIntField(key string, value int) {
	r.SetSimpleField(key, strconv.Itoa(value))
}

// GetBooleanField gets the value of a key under SimpleField and
// convert the result to bool type. That is, if the value is "true",
// the result is true.
func (r Record) GetBooleanField(key string, defaultValue bool) bool {
	result, present := r.GetSimpleField(key)
	if !present {
		return defaultValue
	}

	return strings.ToLower(result) == "true"
}

// SetBooleanField sets a key under SimpleField with a specified bool
// value, serialized to string.
func (r *Record) SetBooleanField(key string, value bool) {
	r.SetSimpleField(key, strconv.FormatBool(value))
}

// SetSimpleField sets the value of a key under SimpleField
func (r *Record) SetSimpleField(key string, value string) {
	if r.SimpleFields == nil {
		r.SimpleFields = make(map[string]string)
	}
	r.SimpleFields[key] = value
}

func (r *Record) RemoveSimpleField(key string) {
	delete(r.SimpleFields, key)
}

func (r Record) GetListField(key string) []string {
	return r.ListFields[key]
}

func (r *Record) SetListField(key string, values []string) {
	if r.ListFields == nil {
		r.ListFields = make(map[string][]string)
	}
	r.ListFields[key] = values
}

func (r *Record) AddListField(key string, value string) {
	if r.ListFields == nil {
		r.ListFields = make(map[string][]string)
	}
	r.ListFields[key] = append(r.ListFields[key], value)
}

// SetMapField sets the value of a key under MapField. Both key and
// value are string format.
func (r *Record) SetMapField(key string, property string, value string) {
	if r.MapFields == nil {
		r.MapFields = make(map[string]map[string]string)
	}

	if r.MapFields[key] == nil {
		r.MapFields[key] = make(map[string]string)
	}

	r.MapFields[key][property] = value
}

// RemoveMapField deletes a key from MapField
func (r *Record) RemoveMapField(key string) {
	if r.MapFields == nil || r.MapFields[key] == nil {
		return
	}

	delete(r.MapFields, key)
}

// GetMapField returns the string value of the property of a key
// under MapField.
func (r Record) GetMapField(key string, property string) string {
	if r.MapFields == nil || r.MapFields[key] == nil {
		return ""
	}

	return r.MapFields[key][property]
}
