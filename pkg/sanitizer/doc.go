// Package sanitizer normalizes free-form user input before it is sent to the
// backend or used as a lookup key.
//
// Every function is pure and total: it never fails, it only returns a
// cleaner string.
//
//	sanitizer.Email("  Pat..Doe@Example.COM ") // "pat.doe@example.com"
//	sanitizer.Text("para\tcetamol \n 500")     // "para cetamol 500"
//	sanitizer.Key(" PARA  500 ")               // "para 500"
package sanitizer
