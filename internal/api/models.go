package api

import (
	"fmt"
	"math"
	"strconv"
)

// Record field ids, matching the column names of the remote API's user table.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"

	// Basic info
	FieldName      = "name"
	FieldAge       = "age"
	FieldEmail     = "email_address"
	FieldPassword  = "password"
	FieldPhone     = "phone"
	FieldGender    = "gender"
	FieldBloodType = "blood_type"
	FieldDoctor    = "doctor"

	// Photo
	FieldPhotoPath = "photo_path"

	// Emergency contact
	FieldContactName     = "contact_name"
	FieldContactRelation = "contact_relation"
	FieldContactPhone    = "contact_phone"

	// Medical / allergy / medication
	FieldDiseaseName = "disease_name"
	FieldSinceDate   = "since_date"
	FieldDiseaseMemo = "disease_memo"
	FieldAllergyName = "allergy_name"
	FieldAllergyMemo = "allergy_memo"
	FieldMedName     = "med_name"
	FieldDosage      = "dosage"
	FieldSchedule    = "schedule"
	FieldMedMemo     = "med_memo"

	// Support
	FieldSupportDesc = "support_desc"
	FieldSupportMemo = "support_memo"
	FieldHasSupport  = "has_support"
	FieldDailyMemo   = "daily_memo"

	// Device / emergency response
	FieldDeviceType   = "device_type"
	FieldInUse        = "in_use"
	FieldDeviceMemo   = "device_memo"
	FieldResponseInfo = "response_info"
	FieldResponseMemo = "response_memo"
)

// flagFields are the boolean-as-integer fields, stored as 0/1 on the wire.
var flagFields = map[string]bool{
	FieldHasSupport: true,
	FieldInUse:      true,
}

// IsFlagField reports whether the field carries a 0/1 flag value.
func IsFlagField(id string) bool {
	return flagFields[id]
}

// Record is one care-recipient profile, keyed by field id. Values are
// whatever the wire carries (strings for most fields, numbers for the flag
// fields and id); the typed accessors below normalize access. The map shape
// is deliberate: the multi-step form merges per-field buffers into the
// record, and a merge must preserve every key it does not mention.
type Record map[string]any

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{}
}

// Clone returns a shallow copy of the record. All values are scalars, so a
// shallow copy is a full copy.
func (r Record) Clone() Record {
	if r == nil {
		return NewRecord()
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field value rendered as a string. Numeric values are
// formatted without a decimal point (JSON decoding yields float64).
// Missing or nil fields render as "".
func (r Record) String(id string) string {
	v, ok := r[id]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Flag returns the field interpreted as a 0/1 flag. Any representation of
// the number 1 (or the string "1") is true; everything else is false.
func (r Record) Flag(id string) bool {
	v, ok := r[id]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case float64:
		return val == 1
	case int:
		return val == 1
	case int64:
		return val == 1
	case string:
		return val == "1"
	case bool:
		return val
	default:
		return false
	}
}

// Set stores a raw value for the field.
func (r Record) Set(id string, v any) {
	r[id] = v
}

// SetString stores a string-valued field, converting flag fields to their
// wire representation (0/1 integers).
func (r Record) SetString(id string, s string) {
	if IsFlagField(id) {
		if s == "1" {
			r[id] = 1
		} else {
			r[id] = 0
		}
		return
	}
	r[id] = s
}

// MergeValues overlays a field buffer onto the record. Fields not present
// in the buffer keep their existing values; flag fields are converted to
// 0/1 integers.
func (r Record) MergeValues(values map[string]string) {
	for id, s := range values {
		r.SetString(id, s)
	}
}

// ID returns the server-assigned record id, or 0 for unsaved records.
func (r Record) ID() int64 {
	v, ok := r[FieldID]
	if !ok || v == nil {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	case string:
		id, _ := strconv.ParseInt(val, 10, 64)
		return id
	default:
		return 0
	}
}

// Summary is one row of the record list, as returned by the list and
// search endpoints.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DetailField is one labelled field of the detail view.
type DetailField struct {
	Label string
	ID    string
}

// Section is one semantic group of record fields.
type Section struct {
	Title  string
	Fields []DetailField
}

// DetailSections returns the six display sections of a record, in order.
// Labels are the operator-facing Japanese strings.
func DetailSections() []Section {
	return []Section{
		{
			Title: "利用者基本情報",
			Fields: []DetailField{
				{"名前", FieldName}, {"年齢", FieldAge}, {"メールアドレス", FieldEmail},
				{"電話番号", FieldPhone}, {"性別", FieldGender}, {"血液型", FieldBloodType},
				{"担当医師", FieldDoctor},
			},
		},
		{
			Title: "顔写真",
			Fields: []DetailField{
				{"顔写真パス", FieldPhotoPath},
			},
		},
		{
			Title: "緊急連絡先",
			Fields: []DetailField{
				{"名前", FieldContactName}, {"続柄", FieldContactRelation}, {"電話番号", FieldContactPhone},
			},
		},
		{
			Title: "持病・アレルギー・服用薬情報",
			Fields: []DetailField{
				{"病名", FieldDiseaseName}, {"発症時期", FieldSinceDate}, {"病歴メモ", FieldDiseaseMemo},
				{"アレルギー名", FieldAllergyName}, {"アレルギーに関するメモ", FieldAllergyMemo},
				{"薬の名前", FieldMedName}, {"薬の服用量", FieldDosage},
				{"服用スケジュール", FieldSchedule}, {"薬に関するメモ", FieldMedMemo},
			},
		},
		{
			Title: "医療的・日常的支援情報",
			Fields: []DetailField{
				{"医療的支援内容", FieldSupportDesc}, {"支援に関するメモ", FieldSupportMemo},
				{"支援が必要か", FieldHasSupport}, {"日常的支援に関するメモ", FieldDailyMemo},
			},
		},
		{
			Title: "補助具使用・緊急時対応情報",
			Fields: []DetailField{
				{"補助具の種類", FieldDeviceType}, {"補助具使用の有無", FieldInUse},
				{"補助具に関するメモ", FieldDeviceMemo}, {"緊急時対応内容", FieldResponseInfo},
				{"緊急時対応に関するメモ", FieldResponseMemo},
			},
		},
	}
}
