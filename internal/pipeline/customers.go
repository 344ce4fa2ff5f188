package pipeline

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
)

// Fixed pools for synthetic customer identities. Selection is a pure
// function of the customer key, so the same key yields the same identity in
// every run and regardless of processing order.
var firstNames = []string{
	"John", "Jane", "Michael", "Sarah", "David", "Emma", "Chris", "Lisa",
	"Mark", "Anna", "Paul", "Sophie", "James", "Kate", "Tom", "Lucy",
	"Robert", "Helen", "Peter", "Grace", "Steve", "Olivia", "Daniel", "Amy",
}

var lastNames = []string{
	"Smith", "Johnson", "Brown", "Taylor", "Anderson", "Thomas", "Jackson",
	"White", "Harris", "Martin", "Thompson", "Garcia", "Martinez", "Robinson",
	"Clark", "Rodriguez", "Lewis", "Lee", "Walker", "Hall", "Allen", "Young",
}

var emailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "email.com",
}

// poolIndex hashes the key with a salt so the three pool picks for one
// customer are independent of each other.
func poolIndex(key int, salt string, size int) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", key, salt)
	return int(h.Sum32() % uint32(size))
}

// CustomerName derives the synthetic display name for a customer key.
func CustomerName(key int) string {
	first := firstNames[poolIndex(key, "first", len(firstNames))]
	last := lastNames[poolIndex(key, "last", len(lastNames))]
	return first + " " + last
}

// CustomerEmail derives the synthetic email. The key is embedded so emails
// stay unique even when two keys land on the same name.
func CustomerEmail(name string, key int) string {
	local := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	domain := emailDomains[poolIndex(key, "domain", len(emailDomains))]
	return fmt.Sprintf("%s.%d@%s", local, key, domain)
}

// ExtractCustomers groups cleaned records by customer key and derives one
// customer per key. Signup date is the earliest transaction date in the
// group; city is taken from the group's first record (country assumed stable
// per customer). Output is sorted by id.
func ExtractCustomers(records []CleanRecord) []model.Customer {
	type group struct {
		earliest time.Time
		country  string
	}

	groups := make(map[int]*group)
	for _, r := range records {
		g, ok := groups[r.CustomerID]
		if !ok {
			groups[r.CustomerID] = &group{earliest: r.InvoiceDate, country: r.Country}
			continue
		}
		if r.InvoiceDate.Before(g.earliest) {
			g.earliest = r.InvoiceDate
		}
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	customers := make([]model.Customer, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		name := CustomerName(key)
		customers = append(customers, model.Customer{
			ID:         key,
			Name:       name,
			Email:      CustomerEmail(name, key),
			City:       g.country,
			SignupDate: truncateToDate(g.earliest),
		})
	}
	return customers
}

func truncateToDate(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
