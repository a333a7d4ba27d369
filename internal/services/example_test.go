package services

import (
	"fmt"
	"os"

	"cashback/internal/domain/models"
	"cashback/internal/storage"

	"go.uber.org/zap"
)

// ExampleCashbackServ_Find demonstrates searching one cashback across banks.
func ExampleCashbackServ_Find() {
	service, _ := NewCashbackService(storage.NewStorageMemory(), zap.NewNop().Sugar())

	_ = service.Add("Visa", models.Entry{Name: "Fuel", Percent: 3})
	_ = service.Add("Mir", models.Entry{Name: "fuel", Percent: 5})
	_ = service.Add("Mir", models.Entry{Name: "Online", Percent: 10})

	for _, m := range service.Find("FUEL") {
		fmt.Printf("%s: %s - %v%%\n", m.Group, m.Name, m.Percent)
	}

	// Output:
	// Mir: fuel - 5%
	// Visa: Fuel - 3%
}

// ExampleCashbackServ_DeleteEntry demonstrates that a bank disappears with its last cashback.
func ExampleCashbackServ_DeleteEntry() {
	st := storage.NewStorageMemory()
	service, _ := NewCashbackService(st, zap.NewNop().Sugar())

	_ = service.Add("Visa", models.Entry{Name: "Fuel", Percent: 3})
	_ = service.Add("Mir", models.Entry{Name: "Online", Percent: 10.5})
	_ = service.DeleteEntry("Visa", "fuel")

	doc, _ := st.Load()
	_ = doc.Encode(os.Stdout)

	// Output:
	// {
	//     "Mir": {
	//         "Online": 10.5
	//     }
	// }
}
