// Package domain contains the core business entities, value objects, and
// domain logic of the application: job posting records, the content
// sufficiency rules applied to them, candidate profile data, and the shared
// error taxonomy used to classify failures across the pipeline. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
