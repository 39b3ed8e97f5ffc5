package domain

// Provider is a specialist profile shown on the resources tab.
type Provider struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	ImageURL  string `json:"image"`
}

// Video is a curated external resource.
type Video struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

var Providers = []Provider{
	{Name: "Dr. Priya Sharma", Specialty: "Anxiety & Stress Management", Location: "Bangalore", Phone: "+91 98765 43210", ImageURL: "https://i.ibb.co/3chGS5k/doctor1.png"},
	{Name: "Dr. Rahul Verma", Specialty: "Depression & Mood Disorders", Location: "Mumbai", Phone: "+91 87654 32109", ImageURL: "https://i.ibb.co/Zcp99sM/doctor2.png"},
	{Name: "Dr. Ananya Reddy", Specialty: "Sleep Issues & Trauma", Location: "Hyderabad", Phone: "+91 76543 21098", ImageURL: "https://i.ibb.co/7vbL8jr/doctor3.png"},
}

var Videos = []Video{
	{Title: "10-Minute Guided Breathing for Anxiety", Description: "Calm your mind instantly", URL: "https://www.youtube.com/watch?v=O-6f5wQXSu8"},
	{Title: "How to Stop Overthinking", Description: "Break the rumination cycle", URL: "https://www.youtube.com/watch?v=1B8dZas2qg8"},
	{Title: "Guided Sleep Meditation", Description: "Fall asleep peacefully", URL: "https://www.youtube.com/watch?v=inpok4MKVLM"},
	{Title: "Understanding Depression", Description: "Clear & compassionate", URL: "https://www.youtube.com/watch?v=z-IR48Mb3W0"},
	{Title: "Box Breathing Technique", Description: "Reduce stress in 2 min", URL: "https://www.youtube.com/watch?v=FJJazKtH_9I"},
}

var Affirmations = []string{
	"You are enough.",
	"This feeling will pass.",
	"You've survived 100% of your hardest days.",
	"It's okay to not be okay.",
}

var Meditations = []string{
	"Breathe in calm... breathe out tension.",
	"You are safe right now.",
	"Let your shoulders drop with each exhale.",
}

// IsKnownProvider reports whether name matches a listed provider.
func IsKnownProvider(name string) bool {
	for _, p := range Providers {
		if p.Name == name {
			return true
		}
	}
	return false
}
