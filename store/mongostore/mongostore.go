// Package mongostore provides MongoDB-backed implementations of the store
// repositories, selected with STORE_BACKEND=mongo. Prices and totals are
// persisted as decimal strings to avoid float drift.
package mongostore

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vitrin/models"
	"vitrin/store"
)

type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
}

func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
		users:    db.Collection("users"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Seed inserts the given products and users unless the collections already
// hold data, so restarts do not reset live stock.
func (s *Store) Seed(ctx context.Context, products []models.Product, users []models.User) error {
	n, err := s.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		docs := make([]interface{}, 0, len(products))
		for i, p := range products {
			docs = append(docs, productToDoc(p, i))
		}
		if _, err := s.products.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		log.Printf("Seeded %d products", len(products))
	}

	n, err = s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n == 0 && len(users) > 0 {
		docs := make([]interface{}, 0, len(users))
		for _, u := range users {
			docs = append(docs, u)
		}
		if _, err := s.users.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		log.Printf("Seeded %d users", len(users))
	}
	return nil
}

func (s *Store) Products() store.ProductRepository { return &productRepo{col: s.products} }
func (s *Store) Carts() store.CartRepository       { return &cartRepo{col: s.carts} }
func (s *Store) Orders() store.OrderRepository     { return &orderRepo{col: s.orders} }
func (s *Store) Users() store.UserRepository       { return &userRepo{col: s.users} }

type productRepo struct {
	col *mongo.Collection
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	// seq preserves catalog insertion order across restarts.
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"seq": 1}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepo) Get(ctx context.Context, productID string) (models.Product, error) {
	var d productDoc
	err := r.col.FindOne(ctx, bson.M{"productid": productID}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, store.ErrNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return d.toModel()
}

func (r *productRepo) Put(ctx context.Context, p models.Product) error {
	doc := productToDoc(p, -1)
	_, err := r.col.UpdateOne(ctx,
		bson.M{"productid": p.ProductID},
		bson.M{"$set": bson.M{
			"name":        doc.Name,
			"description": doc.Description,
			"price":       doc.Price,
			"category":    doc.Category,
			"image":       doc.Image,
			"stock":       doc.Stock,
			"featured":    doc.Featured,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// DecrementStock applies conditional decrements one by one and compensates
// already-applied ones when a later product fails, approximating the
// all-or-nothing contract without multi-document transactions.
func (r *productRepo) DecrementStock(ctx context.Context, decs []store.StockDecrement) error {
	applied := make([]store.StockDecrement, 0, len(decs))

	rollback := func() {
		for _, d := range applied {
			if _, err := r.col.UpdateOne(ctx,
				bson.M{"productid": d.ProductID},
				bson.M{"$inc": bson.M{"stock": d.Quantity}},
			); err != nil {
				log.Printf("stock rollback failed for %s: %v", d.ProductID, err)
			}
		}
	}

	for _, d := range decs {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"productid": d.ProductID, "stock": bson.M{"$gte": d.Quantity}},
			bson.M{"$inc": bson.M{"stock": -d.Quantity}},
		)
		if err != nil {
			rollback()
			return fmt.Errorf("decrement stock: %w", err)
		}
		if res.MatchedCount == 0 {
			rollback()
			p, err := r.Get(ctx, d.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", d.ProductID, store.ErrNotFound)
			}
			return &store.InsufficientStockError{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Available: p.Stock,
			}
		}
		applied = append(applied, d)
	}
	return nil
}

type cartRepo struct {
	col *mongo.Collection
}

func (r *cartRepo) Get(ctx context.Context, cartID string) (models.Cart, error) {
	var d cartDoc
	err := r.col.FindOne(ctx, bson.M{"cartid": cartID}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return models.Cart{}, fmt.Errorf("cart %s: %w", cartID, store.ErrNotFound)
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("find cart: %w", err)
	}
	return d.toModel()
}

func (r *cartRepo) Put(ctx context.Context, c models.Cart) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"cartid": c.CartID},
		cartToDoc(c),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put cart: %w", err)
	}
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, cartID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"cartid": cartID}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

type orderRepo struct {
	col *mongo.Collection
}

func (r *orderRepo) Get(ctx context.Context, orderID string) (models.Order, error) {
	var d orderDoc
	err := r.col.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return d.toModel()
}

func (r *orderRepo) Put(ctx context.Context, o models.Order) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"orderid": o.OrderID},
		orderToDoc(o),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userid": userID})
}

func (r *orderRepo) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	out := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

type userRepo struct {
	col *mongo.Collection
}

func (r *userRepo) Get(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"userid": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *userRepo) Put(ctx context.Context, u models.User) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"userid": u.UserID},
		u,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}
