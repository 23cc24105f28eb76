// Package declare builds field declarations from documents: YAML or JSON
// field files and OpenAPI request bodies. Formatters and custom validators are
// referenced by name and looked up in a Registry.
//
//	fields:
//	  email:
//	    label: Email
//	    formatter: [trim, lower]
//	    validators:
//	      - tag: email
//	        message: This doesn't look like an email.
//	  phone:
//	    required_when: contact == "phone"
package declare
