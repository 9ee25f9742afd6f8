// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Command seeder loads a small bilingual sample knowledge base, either from
// a JSON pairs file or from the built-in set.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ingestion"
)

var seedFileName = flag.String("file", "", "JSON pairs file to seed from (defaults to built-in pairs)")
var dbPath = flag.String("db", "./answerit_db", "Path to BadgerDB knowledge base directory")

var builtinPairs = []ingestion.QAPair{
	{
		Questions: []string{"xin chào", "chào bạn", "hello", "hi"},
		Answer:    "Hello! How can I help you today?",
		Category:  "greeting",
	},
	{
		Questions: []string{"bạn tên là gì", "what is your name", "who are you"},
		Answer:    "I am answerit, a question-answering assistant.",
		Category:  "greeting",
	},
	{
		Questions: []string{"giờ mở cửa", "opening hours", "when are you open"},
		Answer:    "We are open Monday to Friday, 9:00 to 17:00.",
		Category:  "general",
	},
	{
		Questions: []string{"phí giao hàng bao nhiêu", "how much is shipping", "shipping cost"},
		Answer:    "Shipping is free for orders over 500k VND, otherwise 30k VND.",
		Category:  "shipping",
	},
	{
		Questions: []string{"giao hàng mất bao lâu", "how long does delivery take"},
		Answer:    "Delivery takes 3-5 business days nationwide.",
		Category:  "shipping",
	},
	{
		Questions: []string{"chính sách đổi trả", "return policy", "can i return my order"},
		Answer:    "You can return any item within 30 days of delivery.",
		Category:  "general",
	},
	{
		Questions: []string{"quên mật khẩu", "i forgot my password", "reset password"},
		Answer:    "Use the forgot-password link on the sign-in page to reset it.",
		Category:  "account",
	},
	{
		Questions: []string{"làm sao để liên hệ hỗ trợ", "contact support", "how do i get help"},
		Answer:    "Email support@example.com or call 1900-0000 during business hours.",
		Category:  "support",
	},
	{
		Questions: []string{"có những phương thức thanh toán nào", "payment methods", "how can i pay"},
		Answer:    "We accept cards, bank transfer, and cash on delivery.",
		Category:  "pricing",
	},
	{
		Questions: []string{"cảm ơn", "thank you", "thanks"},
		Answer:    "You're welcome!",
		Category:  "greeting",
	},
}

func main() {
	flag.Parse()

	service, err := answerit.NewService(*dbPath)
	if err != nil {
		panic(err)
	}
	defer service.Close()

	ingester, err := service.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	pairs := builtinPairs
	if *seedFileName != "" {
		file, err := os.Open(*seedFileName)
		if err != nil {
			panic(err)
		}
		defer file.Close()

		pairs, err = ingestion.LoadPairs(file)
		if err != nil {
			panic(err)
		}
	}

	if _, err := ingester.Ingest(ctx, pairs); err != nil {
		panic(err)
	}
}
