package runtimes

// TableEntry is one row of the maintained runtime reference table.
// EndOfSupport is the AWS-published end-of-support date in YYYY-MM-DD
// form; empty means no date has been announced.
type TableEntry struct {
	Language     string
	Version      string
	EndOfSupport string
}

// DefaultTable maps Lambda runtime identifiers to language info and
// end-of-support dates, per the AWS Lambda runtime deprecation policy
// (https://docs.aws.amazon.com/lambda/latest/dg/lambda-runtimes.html).
var DefaultTable = map[string]TableEntry{
	// Python
	"python2.7":  {Language: "Python", Version: "2.7", EndOfSupport: "2021-07-15"},
	"python3.6":  {Language: "Python", Version: "3.6", EndOfSupport: "2022-07-18"},
	"python3.7":  {Language: "Python", Version: "3.7", EndOfSupport: "2023-12-04"},
	"python3.8":  {Language: "Python", Version: "3.8", EndOfSupport: "2024-10-14"},
	"python3.9":  {Language: "Python", Version: "3.9", EndOfSupport: "2025-12-15"},
	"python3.10": {Language: "Python", Version: "3.10", EndOfSupport: "2026-06-30"},
	"python3.11": {Language: "Python", Version: "3.11", EndOfSupport: "2026-06-30"},
	"python3.12": {Language: "Python", Version: "3.12", EndOfSupport: "2028-10-31"},
	"python3.13": {Language: "Python", Version: "3.13", EndOfSupport: "2029-06-30"},

	// Node.js
	"nodejs12.x": {Language: "Node.js", Version: "12.x", EndOfSupport: "2023-03-31"},
	"nodejs14.x": {Language: "Node.js", Version: "14.x", EndOfSupport: "2023-12-04"},
	"nodejs16.x": {Language: "Node.js", Version: "16.x", EndOfSupport: "2024-06-12"},
	"nodejs18.x": {Language: "Node.js", Version: "18.x", EndOfSupport: "2025-09-01"},
	"nodejs20.x": {Language: "Node.js", Version: "20.x", EndOfSupport: "2026-04-30"},
	"nodejs22.x": {Language: "Node.js", Version: "22.x", EndOfSupport: "2027-04-30"},

	// Java
	"java8":     {Language: "Java", Version: "8", EndOfSupport: "2024-01-08"},
	"java8.al2": {Language: "Java", Version: "8 (Amazon Linux 2)", EndOfSupport: "2026-06-30"},
	"java11":    {Language: "Java", Version: "11"},
	"java17":    {Language: "Java", Version: "17"},
	"java21":    {Language: "Java", Version: "21"},

	// .NET
	"dotnetcore2.1": {Language: ".NET Core", Version: "2.1", EndOfSupport: "2022-01-05"},
	"dotnetcore3.1": {Language: ".NET Core", Version: "3.1", EndOfSupport: "2023-04-03"},
	"dotnet6":       {Language: ".NET", Version: "6", EndOfSupport: "2024-12-20"},
	"dotnet8":       {Language: ".NET", Version: "8", EndOfSupport: "2026-11-10"},

	// Go
	"go1.x": {Language: "Go", Version: "1.x", EndOfSupport: "2024-01-08"},

	// Ruby
	"ruby2.7": {Language: "Ruby", Version: "2.7", EndOfSupport: "2023-12-07"},
	"ruby3.2": {Language: "Ruby", Version: "3.2", EndOfSupport: "2026-03-31"},
	"ruby3.3": {Language: "Ruby", Version: "3.3"},

	// OS-only custom runtimes. No end-of-support tracking: the customer
	// owns the runtime, AWS only retires the base image.
	"provided":        {Language: "Custom Runtime", Version: "Amazon Linux"},
	"provided.al2":    {Language: "Custom Runtime", Version: "Amazon Linux 2"},
	"provided.al2023": {Language: "Custom Runtime", Version: "Amazon Linux 2023"},
}
