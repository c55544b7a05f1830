package seed

// VirtualPatient is a training case stored in the virtual-patient collection.
type VirtualPatient struct {
	ID         string   `bson:"id" json:"id"`
	Name       string   `bson:"name" json:"name"`
	RecordID   string   `bson:"recordId" json:"recordId"`
	Difficulty int      `bson:"difficulty" json:"difficulty"` // 1 (easy) – 5 (hard)
	Symptoms   []string `bson:"symptoms" json:"symptoms"`
	Anamnesis  string   `bson:"anamnesis" json:"anamnesis"`
}

// IndexField is the document field the collection is indexed on.
const IndexField = "id"

// SamplePatients returns the seed records inserted on first initialization.
// Each call returns a fresh slice so callers may modify it.
func SamplePatients() []VirtualPatient {
	return []VirtualPatient{
		{
			ID:         "vp-001",
			Name:       "Anna Kováčová",
			RecordID:   "mongo-record-123",
			Difficulty: 2,
			Symptoms:   []string{"fever", "cough", "fatigue"},
			Anamnesis:  "Patient reports feeling unwell for the past 3 days",
		},
		{
			ID:         "vp-002",
			Name:       "Filip Mocháč",
			RecordID:   "mongo-record-456",
			Difficulty: 3,
			Symptoms:   []string{"headache", "nausea", "dizziness"},
			Anamnesis:  "Patient reports severe headache and dizziness since morning",
		},
		{
			ID:         "vp-003",
			Name:       "Peter Novák",
			RecordID:   "mongo-record-789",
			Difficulty: 4,
			Symptoms:   []string{"chest pain", "shortness of breath", "sweating"},
			Anamnesis:  "Patient reports severe chest pain and difficulty breathing",
		},
		{
			ID:         "vp-004",
			Name:       "Mária Horváthová",
			RecordID:   "mongo-record-101",
			Difficulty: 1,
			Symptoms:   []string{"sore throat", "runny nose", "mild fever"},
			Anamnesis:  "Patient reports cold-like symptoms for 2 days",
		},
		{
			ID:         "vp-005",
			Name:       "Ján Tóth",
			RecordID:   "mongo-record-202",
			Difficulty: 5,
			Symptoms:   []string{"severe abdominal pain", "vomiting", "fever", "dehydration"},
			Anamnesis:  "Patient reports acute abdominal pain and persistent vomiting for 12 hours",
		},
	}
}

// Documents returns the sample patients as a slice suitable for a batch insert.
func Documents() []interface{} {
	patients := SamplePatients()
	docs := make([]interface{}, len(patients))
	for i := range patients {
		docs[i] = patients[i]
	}
	return docs
}
