package assistant

import (
	"fmt"
	"strings"

	"salesdash/analytics"
)

// LocalResponse answers common questions from the business context without an
// LLM. Topics are matched by keyword in a fixed order.
func LocalResponse(message string, biz BusinessContext) string {
	q := strings.ToLower(message)

	switch {
	case containsAny(q, "penjualan", "sales"):
		return fmt.Sprintf(`Analisis penjualan:

Total penjualan %d hari terakhir: %s
Rata-rata harian: %s

Rekomendasi:
1. Fokus promosi pada produk terlaris untuk menaikkan volume
2. Buat bundling produk untuk menaikkan nilai transaksi
3. Evaluasi produk dengan penjualan rendah`,
			biz.WindowDays, analytics.FormatCurrency(biz.TotalRevenue), analytics.FormatCurrency(biz.DailyAverage()))

	case containsAny(q, "restock", "stok", "stock"):
		if len(biz.LowStock) == 0 {
			return "Semua produk memiliki stok yang cukup. Tetap pantau secara berkala!"
		}
		lines := make([]string, 0, len(biz.LowStock))
		for _, p := range biz.LowStock {
			lines = append(lines, fmt.Sprintf("- %s: %d unit", p.Name, p.Stock))
		}
		return "Rekomendasi restock:\n\nProduk dengan stok rendah:\n" + strings.Join(lines, "\n") + `

Saran:
1. Prioritaskan restock produk terlaris dengan stok rendah
2. Pesan dalam jumlah yang cukup untuk 2-4 minggu
3. Perhitungkan lead time supplier`

	case containsAny(q, "promo", "diskon", "discount"):
		top := "produk terlaris"
		if len(biz.TopProducts) > 0 {
			top = biz.TopProducts[0].ProductName
		}
		return fmt.Sprintf(`Saran promo minggu ini:

1. Bundle deal: gabungkan %s dengan produk pelengkap
2. Flash sale: diskon 10-15%% untuk produk dengan stok berlebih
3. Loyalty reward: bonus item untuk pembelian di atas nilai tertentu
4. Paket hemat: harga spesial untuk pembelian dalam jumlah banyak`, top)

	case containsAny(q, "bundling", "bundle", "paket"):
		a, b := "Produk A", "Produk B"
		if len(biz.TopProducts) > 0 {
			a = biz.TopProducts[0].ProductName
		}
		if len(biz.TopProducts) > 1 {
			b = biz.TopProducts[1].ProductName
		}
		return fmt.Sprintf(`Rekomendasi bundling produk:

Paket 1: "%s + %s"
- Harga bundle: diskon 10%% dari total
- Target: pelanggan yang membeli salah satu produk

Paket 2: "Paket Lengkap"
- Gabungkan 3-4 produk populer
- Diskon 15-20%% dari harga satuan`, a, b)

	case containsAny(q, "keuntungan", "profit", "margin"):
		return `Strategi meningkatkan keuntungan:

1. Margin: tinjau harga jual secara berkala dan negosiasi harga dengan supplier
2. Operasional: kurangi produk slow-moving dan optimalkan jumlah stok
3. Penjualan: fokus pada produk bermargin tinggi, lakukan upselling dan cross-selling
4. Data: pantau produk dengan profit tertinggi dan evaluasi produk yang merugi`
	}

	return `Terima kasih atas pertanyaan Anda!

Saya dapat membantu analisis penjualan dan tren, rekomendasi restock, saran promo, ide bundling produk, serta strategi meningkatkan keuntungan.

Tanyakan hal spesifik tentang bisnis Anda dan saya akan menjawab berdasarkan data yang ada.`
}
