package store

import "rental-intake/internal/model"

// defaultFleet seeds the demo store so the vehicle picker has cars to show
// before an administrator adds any.
func defaultFleet() []model.Vehicle {
	return []model.Vehicle{
		{ID: "v1", Make: "Toyota", Model: "Camry SE", Year: "2023", Color: "Midnight Black", VIN: "SAMPLE123456", Plate: "TX-5599", Status: model.VehicleAvailable, WeeklyRent: 350, ImageURL: "https://images.unsplash.com/photo-1621007947382-bb3c3968e3bb?auto=format&fit=crop&q=80&w=800"},
		{ID: "v2", Make: "Honda", Model: "Accord Sport", Year: "2022", Color: "Sonic Gray", VIN: "SAMPLE987654", Plate: "TX-1122", Status: model.VehicleRented, WeeklyRent: 375, ImageURL: "https://images.unsplash.com/photo-1592198084033-aade902d1aae?auto=format&fit=crop&q=80&w=800"},
		{ID: "v3", Make: "Hyundai", Model: "Elantra", Year: "2024", Color: "White", VIN: "SAMPLE111222", Plate: "TX-3344", Status: model.VehicleAvailable, WeeklyRent: 320, ImageURL: "https://images.unsplash.com/photo-1609521263047-f8f205293f24?auto=format&fit=crop&q=80&w=800"},
	}
}

// defaultSmsTemplates are the lifecycle messages used when no templates have
// been customized yet.
func defaultSmsTemplates() []model.SmsTemplate {
	return []model.SmsTemplate{
		{ID: model.TemplateApplicationReceived, Name: "Application Received", Content: "Hi {name}, we received your application for the {car}. We will contact you shortly."},
		{ID: model.TemplateApplicationApproved, Name: "Application Approved", Content: "Good news {name}! Your application has been approved. Please call us to schedule pickup."},
		{ID: model.TemplateApplicationRejected, Name: "Application Update", Content: "Hi {name}, we have reviewed your application and unfortunately cannot proceed at this time."},
	}
}

func defaultEmailTemplates() []model.EmailTemplate {
	return []model.EmailTemplate{
		{ID: model.TemplateApplicationReceived, Name: "Application Received", Subject: "Application Confirmation - DJ Auto Rental", Content: "Dear {name},\n\nWe have received your rental application for the {car}. Our team is reviewing your details."},
		{ID: model.TemplateApplicationApproved, Name: "Application Approved", Subject: "Approved! Your Vehicle is Ready", Content: "Dear {name},\n\nCongratulations! Your application has been approved. Please contact us to schedule your vehicle pickup."},
		{ID: model.TemplateApplicationRejected, Name: "Application Status Update", Subject: "Regarding Your Application", Content: "Dear {name},\n\nThank you for your interest in DJ Auto Rental. After reviewing your application, we are unable to approve your request at this time."},
	}
}
