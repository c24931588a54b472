package fixtures

import (
	"math/rand"
	"os"
	"testing"
)

func Directory(t testing.TB, dir string) string {
	name, err := os.MkdirTemp(dir, "rentals")
	if err != nil {
		t.Fatal(err)
	}

	cleanup := func() {
		err := os.RemoveAll(name)
		if err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(cleanup)

	return name
}

func RandomBytes(n int) []byte {
	r := make([]byte, n)
	_, err := rand.Read(r)
	if err != nil {
		panic(err)
	}
	return r
}

var brands = []string{"Honda", "Yamaha", "Suzuki", "Kawasaki", "Ducati", "Triumph"}

const letters = "abcdefghijklmnopqrstuvwxyz"

func RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func RandomBrand() string {
	return brands[rand.Intn(len(brands))]
}

func RandomDate() string {
	return "2024-" + twoDigits(1+rand.Intn(12)) + "-" + twoDigits(1+rand.Intn(28))
}

func RandomDays() uint64 {
	return uint64(1 + rand.Intn(30))
}

func RandomRate() uint64 {
	return uint64(rand.Intn(500))
}

func twoDigits(v int) string {
	return string([]byte{byte('0' + v/10), byte('0' + v%10)})
}
